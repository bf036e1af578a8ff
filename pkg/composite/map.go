package composite

import (
	"container/list"
	"iter"
	"slices"
	"sync"
)

// Map is an insertion-ordered map whose composite keys are matched by
// structural equality. Any other key is matched by identity, which includes
// keys Go's built-in map rejects, such as slices.
//
// Storing under a key equal to an existing one overwrites the existing entry
// and keeps the original key, so a Map never holds two equal composite keys.
//
// The zero Map is empty and ready to use. A Map is safe for concurrent use.
type Map[V any] struct {
	mu      sync.RWMutex
	opts    options
	order   list.List
	buckets map[uint64][]*list.Element
}

type mapEntry[V any] struct {
	key   any
	value V
	hash  uint64
}

// NewMap returns an empty Map.
func NewMap[V any](opts ...Option) *Map[V] {
	o := buildOptions(opts)
	return &Map[V]{
		opts:    o,
		buckets: make(map[uint64][]*list.Element, o.capacity),
	}
}

func entryOf[V any](el *list.Element) *mapEntry[V] {
	return el.Value.(*mapEntry[V])
}

func (m *Map[V]) hashKey(key any) uint64 {
	if m.opts.identityKeys {
		return leafHash(key)
	}
	return Hash(key)
}

// find returns the element holding key: the key itself if present, otherwise
// for a composite the first stored composite equal to it.
func (m *Map[V]) find(key any) (*list.Element, uint64) {
	h := m.hashKey(key)
	bucket := m.buckets[h]
	for _, el := range bucket {
		if sameValue(entryOf[V](el).key, key) {
			return el, h
		}
	}
	if m.opts.identityKeys || !IsComposite(key) {
		return nil, h
	}
	for _, el := range bucket {
		if k := entryOf[V](el).key; IsComposite(k) && Equal(k, key) {
			return el, h
		}
	}
	return nil, h
}

// Get returns the value stored under key or an equal composite key.
func (m *Map[V]) Get(key any) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if el, _ := m.find(key); el != nil {
		return entryOf[V](el).value, true
	}
	var zero V
	return zero, false
}

// Has reports whether key, or a composite equal to it, is stored.
func (m *Map[V]) Has(key any) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	el, _ := m.find(key)
	return el != nil
}

// Set stores value under key. If an equal key is already present its value
// is replaced in place. Set returns m for chaining.
func (m *Map[V]) Set(key any, value V) *Map[V] {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, h := m.find(key)
	if el != nil {
		entryOf[V](el).value = value
		return m
	}
	if m.buckets == nil {
		m.buckets = make(map[uint64][]*list.Element)
	}
	el = m.order.PushBack(&mapEntry[V]{key: key, value: value, hash: h})
	m.buckets[h] = append(m.buckets[h], el)
	return m
}

// Upsert stores the result of fn under key while holding the write lock. fn
// receives the current value, if any, and the key already stored for it, which
// for composites may be an equal but distinct value.
func (m *Map[V]) Upsert(key any, fn func(stored any, current V, exists bool) V) V {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, h := m.find(key)
	if el != nil {
		e := entryOf[V](el)
		e.value = fn(e.key, e.value, true)
		return e.value
	}
	var zero V
	value := fn(key, zero, false)
	if m.buckets == nil {
		m.buckets = make(map[uint64][]*list.Element)
	}
	el = m.order.PushBack(&mapEntry[V]{key: key, value: value, hash: h})
	m.buckets[h] = append(m.buckets[h], el)
	return value
}

// Delete removes key, or the stored composite equal to it. It reports whether
// an entry was removed.
func (m *Map[V]) Delete(key any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, h := m.find(key)
	if el == nil {
		return false
	}
	m.remove(el, h)
	return true
}

func (m *Map[V]) remove(el *list.Element, h uint64) {
	m.order.Remove(el)
	bucket := slices.DeleteFunc(m.buckets[h], func(other *list.Element) bool {
		return other == el
	})
	if len(bucket) == 0 {
		delete(m.buckets, h)
		return
	}
	m.buckets[h] = bucket
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.order.Len()
}

// Clear removes every entry and returns how many were removed.
func (m *Map[V]) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.order.Len()
	m.order.Init()
	clear(m.buckets)
	return n
}

// All iterates over a snapshot of the entries in insertion order. The Map may
// be modified during iteration; changes are not reflected in the iteration.
func (m *Map[V]) All() iter.Seq2[any, V] {
	snapshot := m.snapshot()
	return func(yield func(any, V) bool) {
		for _, e := range snapshot {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys iterates over a snapshot of the keys in insertion order.
func (m *Map[V]) Keys() iter.Seq[any] {
	snapshot := m.snapshot()
	return func(yield func(any) bool) {
		for _, e := range snapshot {
			if !yield(e.key) {
				return
			}
		}
	}
}

func (m *Map[V]) snapshot() []mapEntry[V] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]mapEntry[V], 0, m.order.Len())
	for el := m.order.Front(); el != nil; el = el.Next() {
		out = append(out, *entryOf[V](el))
	}
	return out
}
