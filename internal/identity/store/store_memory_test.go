package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"tosgate/internal/identity/models"
	id "tosgate/pkg/domain"
	"tosgate/pkg/platform/sentinel"
	"tosgate/pkg/testutil"
)

// InMemoryStoreSuite covers version semantics and copy isolation of the memory backend.
type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
	user  id.UserID
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New()
	s.user = id.UserID("user-1")
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) TestGetUnknownUserIsEmptyAtVersionZero() {
	rec, err := s.store.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal(int64(0), rec.Version)
	s.Empty(rec.Claims)
}

func (s *InMemoryStoreSuite) TestCompareAndSwapBumpsVersion() {
	v, err := s.store.CompareAndSwap(s.ctx, s.user, 0, models.Claims{"foo": "bar"})
	s.Require().NoError(err)
	s.Equal(int64(1), v)

	v, err = s.store.CompareAndSwap(s.ctx, s.user, 1, models.Claims{"foo": "baz"})
	s.Require().NoError(err)
	s.Equal(int64(2), v)

	rec, err := s.store.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal("baz", rec.Claims["foo"])
	s.Equal(int64(2), rec.Version)
}

func (s *InMemoryStoreSuite) TestStaleVersionConflicts() {
	_, err := s.store.CompareAndSwap(s.ctx, s.user, 0, models.Claims{"a": "1"})
	s.Require().NoError(err)

	_, err = s.store.CompareAndSwap(s.ctx, s.user, 0, models.Claims{"a": "2"})
	s.ErrorIs(err, sentinel.ErrConflict)

	rec, err := s.store.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal("1", rec.Claims["a"], "losing writer must not change stored claims")
}

func (s *InMemoryStoreSuite) TestReturnedClaimsAreCopies() {
	s.Require().NoError(s.store.SetClaims(s.ctx, s.user, models.Claims{"ns": map[string]any{"k": "v"}}))

	rec, err := s.store.Get(s.ctx, s.user)
	s.Require().NoError(err)
	rec.Claims["ns"].(map[string]any)["k"] = "mutated"

	again, err := s.store.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal("v", again.Claims["ns"].(map[string]any)["k"])
}

func (s *InMemoryStoreSuite) TestSetClaimsBumpsVersion() {
	s.Require().NoError(s.store.SetClaims(s.ctx, s.user, models.Claims{"foo": "bar"}))
	s.Require().NoError(s.store.SetClaims(s.ctx, s.user, models.Claims{"foo": "bar"}))
	rec, err := s.store.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal(int64(2), rec.Version)
}

// Exactly one of N writers racing from the same version wins.
func (s *InMemoryStoreSuite) TestConcurrentCASSingleWinner() {
	res := testutil.RunConcurrent(20, func(int) error {
		_, err := s.store.CompareAndSwap(s.ctx, s.user, 0, models.Claims{"x": "y"})
		return err
	})
	s.Equal(int32(1), res.Successes)
	s.Equal(int32(19), res.Conflicts)
	s.Zero(res.Errors)
}
