package composite

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MapSuite struct {
	suite.Suite
	m *Map[int]
}

func TestMapSuite(t *testing.T) {
	suite.Run(t, new(MapSuite))
}

func (s *MapSuite) SetupTest() {
	s.m = NewMap[int]()
}

// TestStructuralKeys walks a composite key through get, has, set and delete
// using a fresh, structurally equal key at every step.
func (s *MapSuite) TestStructuralKeys() {
	key := func() *Value { return MustNew(map[string]any{"id": 1}) }

	s.m.Set(key(), 10)

	got, ok := s.m.Get(key())
	s.Require().True(ok)
	s.Equal(10, got)
	s.True(s.m.Has(key()))

	s.m.Set(key(), 20)
	s.Equal(1, s.m.Len())
	got, _ = s.m.Get(key())
	s.Equal(20, got)

	s.True(s.m.Delete(key()))
	s.Equal(0, s.m.Len())
	s.False(s.m.Has(key()))
	s.False(s.m.Delete(key()))
}

func (s *MapSuite) TestOverwriteKeepsStoredKey() {
	first := Of("a", 1)
	s.m.Set(first, 1).Set(Of("a", 1), 2)

	var keys []any
	for k := range s.m.Keys() {
		keys = append(keys, k)
	}
	s.Require().Len(keys, 1)
	s.Same(first, keys[0])
}

func (s *MapSuite) TestMissingKeys() {
	s.m.Set(Of(1), 1)

	got, ok := s.m.Get(Of(2))
	s.False(ok)
	s.Zero(got)
	s.False(s.m.Has(Of(1, 1)))
	s.False(s.m.Has(map[string]any{"0": 1, "length": 1}))
}

func (s *MapSuite) TestStoredZeroValueIsDistinguishable() {
	s.m.Set(Of("zero"), 0)

	got, ok := s.m.Get(Of("zero"))
	s.True(ok)
	s.Equal(0, got)
}

func (s *MapSuite) TestNonCompositeKeysUseIdentity() {
	p1, p2 := &point{X: 1}, &point{X: 1}
	slice := []int{1}

	s.m.Set("a", 1).Set(p1, 2).Set(slice, 3).Set(math.NaN(), 4).Set(0.0, 5)

	s.Equal(5, s.m.Len())
	got, ok := s.m.Get("a")
	s.True(ok)
	s.Equal(1, got)
	s.True(s.m.Has(p1))
	s.False(s.m.Has(p2))
	s.True(s.m.Has(slice))
	s.False(s.m.Has([]int{1}))

	got, ok = s.m.Get(math.NaN())
	s.True(ok)
	s.Equal(4, got)
	s.False(s.m.Has(math.Copysign(0, -1)))

	s.m.Set(p2, 6)
	s.Equal(6, s.m.Len())
	s.True(s.m.Delete(p1))
	s.True(s.m.Has(p2))
}

func (s *MapSuite) TestInsertionOrder() {
	s.m.Set("c", 1).Set(Of(1), 2).Set("a", 3)
	s.m.Set(Of(1), 4)
	s.m.Delete("c")
	s.m.Set("c", 5)

	var keys []any
	var values []int
	for k, v := range s.m.All() {
		keys = append(keys, k)
		values = append(values, v)
	}
	s.Require().Len(keys, 3)
	s.True(Equal(keys[0], Of(1)))
	s.Equal("a", keys[1])
	s.Equal("c", keys[2])
	s.Equal([]int{4, 3, 5}, values)
}

func (s *MapSuite) TestIterationAllowsMutation() {
	s.m.Set("a", 1).Set("b", 2)

	for k := range s.m.Keys() {
		s.m.Delete(k)
	}
	s.Equal(0, s.m.Len())
}

func (s *MapSuite) TestClear() {
	s.m.Set(Of(1), 1).Set("x", 2)
	s.Equal(2, s.m.Clear())

	s.Equal(0, s.m.Len())
	s.Equal(0, s.m.Clear())
	s.False(s.m.Has(Of(1)))
	s.m.Set(Of(1), 3)
	s.Equal(1, s.m.Len())
}

func (s *MapSuite) TestUpsert() {
	stored := Of("k")
	got := s.m.Upsert(stored, func(_ any, current int, exists bool) int {
		s.False(exists)
		return current + 1
	})
	s.Equal(1, got)

	got = s.m.Upsert(Of("k"), func(key any, current int, exists bool) int {
		s.True(exists)
		s.Same(stored, key)
		return current + 1
	})
	s.Equal(2, got)
	s.Equal(1, s.m.Len())
}

// TestIdentityKeys covers a map that opted out of structural matching: equal
// composites are separate entries.
func (s *MapSuite) TestIdentityKeys() {
	m := NewMap[int](WithIdentityKeys())
	a, b := MustNew(map[string]any{"id": 1}), MustNew(map[string]any{"id": 1})

	m.Set(a, 1).Set(b, 2)

	s.Equal(2, m.Len())
	got, ok := m.Get(a)
	s.True(ok)
	s.Equal(1, got)
	s.False(m.Has(MustNew(map[string]any{"id": 1})))
}

func (s *MapSuite) TestZeroValueMap() {
	var m Map[string]
	s.False(m.Has(Of(1)))
	m.Set(Of(1), "one")
	got, ok := m.Get(Of(1))
	s.True(ok)
	s.Equal("one", got)
}

func (s *MapSuite) TestConcurrentSetOfEqualKeys() {
	m := NewMap[int](WithCapacity(4))

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Set(MustNew(map[string]any{"tenant": "acme", "shard": i % 4}), i)
		}()
	}
	wg.Wait()

	s.Equal(4, m.Len())
}
