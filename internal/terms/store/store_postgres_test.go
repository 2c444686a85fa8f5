package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"tosgate/internal/terms/models"
	"tosgate/internal/terms/query"
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

var columns = []string{"tos_id", "link", "creation_date", "notice_type"}

func (s *PostgresStoreSuite) TestPutUpserts() {
	doc := newDoc("tos_v1", models.Notice{"role": "publisher"})
	s.mock.ExpectExec(`INSERT INTO terms_documents .* ON CONFLICT \(tos_id\) DO UPDATE`).
		WithArgs("tos_v1", "www.link.to.terms", doc.CreationDate, []byte(`[{"role":"publisher"}]`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.Require().NoError(s.store.Put(s.ctx, doc))
}

func (s *PostgresStoreSuite) TestPutValidatesBeforeSQL() {
	err := s.store.Put(s.ctx, newDoc(""))
	s.ErrorIs(err, sentinel.ErrInvalidInput)
}

func (s *PostgresStoreSuite) TestGet() {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery(`SELECT tos_id, link, creation_date, notice_type\s+FROM terms_documents\s+WHERE tos_id = \$1`).
		WithArgs("tos_v1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("tos_v1", "www.link.to.terms", created, []byte(`[]`)))

	doc, err := s.store.Get(s.ctx, "tos_v1")
	s.Require().NoError(err)
	s.Equal("tos_v1", doc.TosID)
	s.NotNil(doc.NoticeType)
	s.Empty(doc.NoticeType)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	s.mock.ExpectQuery(`FROM terms_documents`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := s.store.Get(s.ctx, "nope")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestGetDriverError() {
	s.mock.ExpectQuery(`FROM terms_documents`).WillReturnError(errors.New("connection reset"))

	_, err := s.store.Get(s.ctx, "tos_v1")
	s.Require().Error(err)
	s.NotErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListAppliesPredicate() {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery(`ORDER BY tos_id`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("tos_v1", "www.link.to.terms", created, []byte(`[{"role":"publisher"}]`)).
			AddRow("tos_v2", "www.link.to.terms", created, []byte(`[]`)))

	docs, err := s.store.List(s.ctx, query.Predicate{"role": "publisher"})
	s.Require().NoError(err)
	s.Require().Len(docs, 1)
	s.Equal("tos_v1", docs[0].TosID)
}
