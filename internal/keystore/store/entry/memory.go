// Package entry stores keystore entries keyed by structural value.
package entry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"composite/internal/keystore/models"
	"composite/pkg/composite"
	"composite/pkg/platform/sentinel"
)

// InMemory keeps entries in a composite.Map so that equal composite keys
// address the same entry.
type InMemory struct {
	entries *composite.Map[*models.Entry]
}

// NewInMemory returns an empty store.
func NewInMemory() *InMemory {
	return &InMemory{entries: composite.NewMap[*models.Entry]()}
}

// Put stores value under key. When an equal key already exists its entry is
// replaced by a copy carrying the new value; the ID, stored key and creation
// time are kept. created reports whether a new entry was made.
func (s *InMemory) Put(_ context.Context, key, value any, now time.Time) (*models.Entry, bool, error) {
	var created bool
	e := s.entries.Upsert(key, func(stored any, current *models.Entry, exists bool) *models.Entry {
		if exists {
			next := *current
			next.Value = value
			next.UpdatedAt = now
			return &next
		}
		created = true
		return &models.Entry{
			ID:        uuid.New(),
			Key:       stored,
			Value:     value,
			CreatedAt: now,
			UpdatedAt: now,
		}
	})
	return e, created, nil
}

// FindByKey returns the entry whose key equals key.
func (s *InMemory) FindByKey(_ context.Context, key any) (*models.Entry, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return e, nil
}

// Delete removes the entry whose key equals key.
func (s *InMemory) Delete(_ context.Context, key any) error {
	if !s.entries.Delete(key) {
		return sentinel.ErrNotFound
	}
	return nil
}

// List returns every entry in insertion order.
func (s *InMemory) List(_ context.Context) ([]*models.Entry, error) {
	out := make([]*models.Entry, 0, s.entries.Len())
	for _, e := range s.entries.All() {
		out = append(out, e)
	}
	return out, nil
}

// Count returns the number of entries.
func (s *InMemory) Count(_ context.Context) (int, error) {
	return s.entries.Len(), nil
}

// Clear removes every entry and returns how many were removed.
func (s *InMemory) Clear(_ context.Context) (int, error) {
	return s.entries.Clear(), nil
}
