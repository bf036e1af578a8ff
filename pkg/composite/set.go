package composite

import "iter"

// Set is an insertion-ordered set whose composite members are matched by
// structural equality and every other member by identity. Adding a member
// equal to one already present is a no-op.
//
// The zero Set is empty and ready to use. A Set is safe for concurrent use.
type Set struct {
	m Map[struct{}]
}

// NewSet returns an empty Set.
func NewSet(opts ...Option) *Set {
	s := &Set{}
	s.m.opts = buildOptions(opts)
	return s
}

// Has reports whether v, or a composite equal to it, is a member.
func (s *Set) Has(v any) bool {
	return s.m.Has(v)
}

// Add inserts v unless an equal member exists. It returns s for chaining.
func (s *Set) Add(v any) *Set {
	s.m.Upsert(v, func(any, struct{}, bool) struct{} { return struct{}{} })
	return s
}

// Insert is Add that reports whether v was inserted.
func (s *Set) Insert(v any) bool {
	added := false
	s.m.Upsert(v, func(_ any, _ struct{}, exists bool) struct{} {
		added = !exists
		return struct{}{}
	})
	return added
}

// Delete removes v, or the member equal to it, and reports whether a member
// was removed.
func (s *Set) Delete(v any) bool {
	return s.m.Delete(v)
}

// Len returns the number of members.
func (s *Set) Len() int {
	return s.m.Len()
}

// Clear removes every member and returns how many were removed.
func (s *Set) Clear() int {
	return s.m.Clear()
}

// All iterates over a snapshot of the members in insertion order.
func (s *Set) All() iter.Seq[any] {
	return s.m.Keys()
}
