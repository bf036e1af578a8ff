package composite

import (
	"runtime"
	"sync"
	"weak"
)

// registry associates every composite with the frozen payload it was built
// from. Keys are weak pointers so an entry never keeps its wrapper alive; the
// cleanup attached at registration drops the entry after the wrapper is
// collected.
type registry struct {
	mu      sync.RWMutex
	entries map[weak.Pointer[Value]]*payload
}

func newRegistry() *registry {
	return &registry{entries: make(map[weak.Pointer[Value]]*payload)}
}

// registered is the single registry of the process.
var registered = newRegistry()

func (r *registry) register(v *Value, p *payload) {
	key := weak.Make(v)

	r.mu.Lock()
	r.entries[key] = p
	r.mu.Unlock()

	runtime.AddCleanup(v, r.forget, key)
}

func (r *registry) forget(key weak.Pointer[Value]) {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
}

// payloadOf returns the payload registered for v, if any.
func (r *registry) payloadOf(v *Value) (*payload, bool) {
	if v == nil {
		return nil, false
	}
	key := weak.Make(v)

	r.mu.RLock()
	p, ok := r.entries[key]
	r.mu.RUnlock()
	return p, ok
}

func (r *registry) isRegistered(v any) bool {
	c, ok := v.(*Value)
	if !ok {
		return false
	}
	_, ok = r.payloadOf(c)
	return ok
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
