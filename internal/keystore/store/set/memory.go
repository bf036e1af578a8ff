// Package set stores named sets of structural values.
package set

import (
	"context"
	"slices"
	"sync"

	"composite/pkg/composite"
	"composite/pkg/platform/sentinel"
)

// InMemory keeps one composite.Set per name. A set exists from its first
// member until it is dropped or its last member is removed.
type InMemory struct {
	mu   sync.RWMutex
	sets map[string]*composite.Set
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{sets: make(map[string]*composite.Set)}
}

// Add inserts member into the named set, creating the set if needed. It
// reports whether the member was new.
func (s *InMemory) Add(_ context.Context, name string, member any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[name]
	if !ok {
		set = composite.NewSet()
		s.sets[name] = set
	}
	return set.Insert(member), nil
}

// Contains reports whether the named set holds member. Unknown sets hold
// nothing.
func (s *InMemory) Contains(_ context.Context, name string, member any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[name]
	if !ok {
		return false, nil
	}
	return set.Has(member), nil
}

// Remove deletes member from the named set.
func (s *InMemory) Remove(_ context.Context, name string, member any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[name]
	if !ok || !set.Delete(member) {
		return sentinel.ErrNotFound
	}
	if set.Len() == 0 {
		delete(s.sets, name)
	}
	return nil
}

// Members returns the members of the named set in insertion order.
func (s *InMemory) Members(_ context.Context, name string) ([]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return slices.Collect(set.All()), nil
}

// Names returns the names of all sets, sorted.
func (s *InMemory) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.sets))
	for name := range s.sets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Drop deletes the named set with all its members.
func (s *InMemory) Drop(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[name]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sets, name)
	return nil
}
