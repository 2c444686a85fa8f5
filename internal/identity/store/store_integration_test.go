//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"tosgate/internal/identity/models"
	"tosgate/internal/identity/store"
	id "tosgate/pkg/domain"
	"tosgate/pkg/platform/sentinel"
	"tosgate/pkg/testutil"
	"tosgate/pkg/testutil/containers"
)

// casContract runs the same version semantics against every durable backend.
type casContract struct {
	suite.Suite
	newStore func() store.Store
	reset    func(ctx context.Context) error
	store    store.Store
}

func (s *casContract) SetupTest() {
	s.Require().NoError(s.reset(context.Background()))
	s.store = s.newStore()
}

func (s *casContract) TestRoundTrip() {
	ctx := context.Background()
	user := id.UserID("user-roundtrip")

	rec, err := s.store.Get(ctx, user)
	s.Require().NoError(err)
	s.Equal(int64(0), rec.Version)

	v, err := s.store.CompareAndSwap(ctx, user, 0, models.Claims{"foo": "bar", "ns": map[string]any{"tos_v1": map[string]any{"tosId": "tos_v1"}}})
	s.Require().NoError(err)
	s.Equal(int64(1), v)

	rec, err = s.store.Get(ctx, user)
	s.Require().NoError(err)
	s.Equal(int64(1), rec.Version)
	s.Equal("bar", rec.Claims["foo"])
	s.Contains(rec.Claims["ns"], "tos_v1")
}

func (s *casContract) TestStaleWriterLoses() {
	ctx := context.Background()
	user := id.UserID("user-stale")

	_, err := s.store.CompareAndSwap(ctx, user, 0, models.Claims{"a": "first"})
	s.Require().NoError(err)
	_, err = s.store.CompareAndSwap(ctx, user, 0, models.Claims{"a": "second"})
	s.ErrorIs(err, sentinel.ErrConflict)
	_, err = s.store.CompareAndSwap(ctx, user, 7, models.Claims{"a": "third"})
	s.ErrorIs(err, sentinel.ErrConflict)

	rec, err := s.store.Get(ctx, user)
	s.Require().NoError(err)
	s.Equal("first", rec.Claims["a"])
}

func (s *casContract) TestConcurrentWritersSingleWinner() {
	ctx := context.Background()
	user := id.UserID("user-race")
	s.Require().NoError(s.store.SetClaims(ctx, user, models.Claims{"seed": true}))
	rec, err := s.store.Get(ctx, user)
	s.Require().NoError(err)

	res := testutil.RunConcurrent(10, func(int) error {
		_, err := s.store.CompareAndSwap(ctx, user, rec.Version, models.Claims{"winner": true})
		return err
	})
	s.Equal(int32(1), res.Successes)
	s.Equal(int32(9), res.Conflicts)
	s.Zero(res.Errors)
}

type PostgresCASSuite struct{ casContract }

func TestPostgresCASSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	pg := containers.GetManager().GetPostgres(t)
	s := &PostgresCASSuite{}
	s.newStore = func() store.Store { return store.NewPostgres(pg.DB) }
	s.reset = func(ctx context.Context) error { return pg.TruncateTables(ctx, "identity_claims") }
	suite.Run(t, s)
}

type RedisCASSuite struct{ casContract }

func TestRedisCASSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	s := &RedisCASSuite{}
	s.newStore = func() store.Store { return store.NewRedis(rc.Client) }
	s.reset = rc.FlushAll
	suite.Run(t, s)
}
