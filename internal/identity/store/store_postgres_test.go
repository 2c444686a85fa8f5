package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"tosgate/internal/identity/models"
	id "tosgate/pkg/domain"
	"tosgate/pkg/platform/sentinel"
)

// PostgresStoreSuite checks the SQL contract of the Postgres backend against sqlmock.
type PostgresStoreSuite struct {
	suite.Suite
	ctx   context.Context
	mock  sqlmock.Sqlmock
	store *PostgresStore
}

func (s *PostgresStoreSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })
	s.ctx = context.Background()
	s.mock = mock
	s.store = NewPostgres(db)
}

func (s *PostgresStoreSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) TestGetMissingRowIsEmptyRecord() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT claims, version FROM identity_claims WHERE user_id = $1`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"claims", "version"}))

	rec, err := s.store.Get(s.ctx, id.UserID("user-1"))
	s.Require().NoError(err)
	s.Equal(int64(0), rec.Version)
	s.Empty(rec.Claims)
}

func (s *PostgresStoreSuite) TestGetDecodesClaims() {
	s.mock.ExpectQuery(`SELECT claims, version FROM identity_claims`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"claims", "version"}).AddRow([]byte(`{"foo":"bar"}`), int64(3)))

	rec, err := s.store.Get(s.ctx, id.UserID("user-1"))
	s.Require().NoError(err)
	s.Equal(int64(3), rec.Version)
	s.Equal("bar", rec.Claims["foo"])
}

func (s *PostgresStoreSuite) TestGetWrapsDriverErrors() {
	s.mock.ExpectQuery(`SELECT claims, version FROM identity_claims`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.store.Get(s.ctx, id.UserID("user-1"))
	s.Require().Error(err)
	s.Contains(err.Error(), "get claims")
}

func (s *PostgresStoreSuite) TestInsertAtVersionZero() {
	s.mock.ExpectExec(`INSERT INTO identity_claims`).
		WithArgs("user-1", []byte(`{"foo":"bar"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := s.store.CompareAndSwap(s.ctx, id.UserID("user-1"), 0, models.Claims{"foo": "bar"})
	s.Require().NoError(err)
	s.Equal(int64(1), v)
}

func (s *PostgresStoreSuite) TestInsertRaceIsConflict() {
	s.mock.ExpectExec(`INSERT INTO identity_claims`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.store.CompareAndSwap(s.ctx, id.UserID("user-1"), 0, models.Claims{})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestUpdateGuardsVersion() {
	s.mock.ExpectExec(`UPDATE identity_claims\s+SET claims = \$3, version = version \+ 1`).
		WithArgs("user-1", int64(4), []byte(`{"a":1}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	v, err := s.store.CompareAndSwap(s.ctx, id.UserID("user-1"), 4, models.Claims{"a": 1})
	s.Require().NoError(err)
	s.Equal(int64(5), v)
}

func (s *PostgresStoreSuite) TestStaleUpdateIsConflict() {
	s.mock.ExpectExec(`UPDATE identity_claims`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.store.CompareAndSwap(s.ctx, id.UserID("user-1"), 4, models.Claims{})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestSetClaimsUpserts() {
	s.mock.ExpectExec(`ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("user-1", []byte(`{"foo":"bar"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.Require().NoError(s.store.SetClaims(s.ctx, id.UserID("user-1"), models.Claims{"foo": "bar"}))
}
