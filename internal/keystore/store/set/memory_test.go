package set

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"composite/pkg/composite"
	"composite/pkg/platform/sentinel"
)

type SetStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *SetStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestSetStoreSuite(t *testing.T) {
	suite.Run(t, new(SetStoreSuite))
}

func tag(name string) *composite.Value {
	return composite.MustNew(map[string]any{"name": name})
}

func (s *SetStoreSuite) TestAddAndContains() {
	added, err := s.store.Add(s.ctx, "tags", tag("red"))
	s.Require().NoError(err)
	s.True(added)

	added, err = s.store.Add(s.ctx, "tags", tag("red"))
	s.Require().NoError(err)
	s.False(added, "equal member is not added twice")

	present, err := s.store.Contains(s.ctx, "tags", tag("red"))
	s.Require().NoError(err)
	s.True(present)

	present, err = s.store.Contains(s.ctx, "other", tag("red"))
	s.Require().NoError(err)
	s.False(present)
}

func (s *SetStoreSuite) TestMembersKeepInsertionOrder() {
	for _, name := range []string{"b", "a", "c", "a"} {
		_, err := s.store.Add(s.ctx, "tags", tag(name))
		s.Require().NoError(err)
	}

	members, err := s.store.Members(s.ctx, "tags")
	s.Require().NoError(err)
	s.Require().Len(members, 3)
	s.True(composite.Equal(tag("b"), members[0]))
	s.True(composite.Equal(tag("a"), members[1]))
	s.True(composite.Equal(tag("c"), members[2]))

	_, err = s.store.Members(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SetStoreSuite) TestRemove() {
	_, err := s.store.Add(s.ctx, "tags", tag("red"))
	s.Require().NoError(err)

	s.ErrorIs(s.store.Remove(s.ctx, "tags", tag("blue")), sentinel.ErrNotFound)
	s.Require().NoError(s.store.Remove(s.ctx, "tags", tag("red")))

	_, err = s.store.Members(s.ctx, "tags")
	s.ErrorIs(err, sentinel.ErrNotFound, "empty sets are dropped")
	s.ErrorIs(s.store.Remove(s.ctx, "tags", tag("red")), sentinel.ErrNotFound)
}

func (s *SetStoreSuite) TestNamesAndDrop() {
	for _, name := range []string{"zeta", "alpha"} {
		_, err := s.store.Add(s.ctx, name, 1.0)
		s.Require().NoError(err)
	}

	names, err := s.store.Names(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"alpha", "zeta"}, names)

	s.Require().NoError(s.store.Drop(s.ctx, "zeta"))
	s.ErrorIs(s.store.Drop(s.ctx, "zeta"), sentinel.ErrNotFound)

	names, err = s.store.Names(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"alpha"}, names)
}
