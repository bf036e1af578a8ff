package entry

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"composite/pkg/composite"
	"composite/pkg/platform/sentinel"
)

type EntryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *EntryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestEntryStoreSuite(t *testing.T) {
	suite.Run(t, new(EntryStoreSuite))
}

func point(x, y float64) *composite.Value {
	return composite.MustNew(composite.Fields{{Key: "x", Value: x}, {Key: "y", Value: y}})
}

// TestPutAndFind verifies that equal composite keys address one entry.
func (s *EntryStoreSuite) TestPutAndFind() {
	s.Run("creates then finds by an equal key", func() {
		first := point(1, 2)
		e, created, err := s.store.Put(s.ctx, first, "origin", s.now)
		s.Require().NoError(err)
		s.True(created)
		s.Same(first, e.Key)

		found, err := s.store.FindByKey(s.ctx, point(1, 2))
		s.Require().NoError(err)
		s.Equal(e.ID, found.ID)
		s.Equal("origin", found.Value)
	})

	s.Run("overwrite keeps id, stored key and creation time", func() {
		first := point(5, 5)
		e1, _, err := s.store.Put(s.ctx, first, 1.0, s.now)
		s.Require().NoError(err)

		later := s.now.Add(time.Minute)
		e2, created, err := s.store.Put(s.ctx, point(5, 5), 2.0, later)
		s.Require().NoError(err)
		s.False(created)
		s.Equal(e1.ID, e2.ID)
		s.Same(first, e2.Key)
		s.Equal(s.now, e2.CreatedAt)
		s.Equal(later, e2.UpdatedAt)
		s.Equal(2.0, e2.Value)
		s.Equal(1.0, e1.Value, "entries handed out earlier stay unchanged")
	})

	s.Run("scalar keys use identity", func() {
		_, _, err := s.store.Put(s.ctx, math.NaN(), "nan", s.now)
		s.Require().NoError(err)
		found, err := s.store.FindByKey(s.ctx, math.NaN())
		s.Require().NoError(err)
		s.Equal("nan", found.Value)

		_, err = s.store.FindByKey(s.ctx, math.Copysign(0, -1))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound for unknown key", func() {
		_, err := s.store.FindByKey(s.ctx, point(9, 9))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *EntryStoreSuite) TestDelete() {
	_, _, err := s.store.Put(s.ctx, point(1, 1), "a", s.now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, point(1, 1)))
	s.ErrorIs(s.store.Delete(s.ctx, point(1, 1)), sentinel.ErrNotFound)

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *EntryStoreSuite) TestListAndClear() {
	for i := range 3 {
		_, _, err := s.store.Put(s.ctx, composite.Of(float64(i)), i, s.now)
		s.Require().NoError(err)
	}
	_, _, err := s.store.Put(s.ctx, composite.Of(0.0), "updated", s.now)
	s.Require().NoError(err)

	entries, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("updated", entries[0].Value)
	s.Equal(1, entries[1].Value)
	s.Equal(2, entries[2].Value)

	removed, err := s.store.Clear(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, removed)

	entries, err = s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *EntryStoreSuite) TestConcurrentPutsOfEqualKeys() {
	var wg sync.WaitGroup
	for range 32 {
		wg.Go(func() {
			_, _, err := s.store.Put(s.ctx, point(7, 7), "v", s.now)
			s.NoError(err)
		})
	}
	wg.Wait()

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *EntryStoreSuite) TestClearDuringConcurrentPutsCountsEveryRemoval() {
	const writers, perWriter = 8, 50
	var removed atomic.Int64
	var wg sync.WaitGroup
	for w := range writers {
		wg.Go(func() {
			for i := range perWriter {
				_, created, err := s.store.Put(s.ctx, composite.Of(float64(w), float64(i)), "v", s.now)
				s.NoError(err)
				s.True(created)
			}
		})
		wg.Go(func() {
			n, err := s.store.Clear(s.ctx)
			s.NoError(err)
			removed.Add(int64(n))
		})
	}
	wg.Wait()

	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(writers*perWriter, int(removed.Load())+count)
}
