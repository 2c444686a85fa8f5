package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tosgate/internal/terms/models"
	"tosgate/internal/terms/query"
	"tosgate/pkg/platform/sentinel"
)

// PostgresStore persists documents in terms_documents with notice types as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) Put(ctx context.Context, doc *models.TermsDocument) error {
	if err := validateDocument(doc); err != nil {
		return err
	}
	notices, err := json.Marshal(doc.NoticeType)
	if err != nil {
		return fmt.Errorf("encode notice type: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO terms_documents (tos_id, link, creation_date, notice_type, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tos_id) DO UPDATE
		SET link = EXCLUDED.link,
		    creation_date = EXCLUDED.creation_date,
		    notice_type = EXCLUDED.notice_type,
		    updated_at = NOW()
	`, doc.TosID, doc.Link, doc.CreationDate.UTC(), notices)
	if err != nil {
		return fmt.Errorf("put terms document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, tosID string) (*models.TermsDocument, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx, `
		SELECT tos_id, link, creation_date, notice_type
		FROM terms_documents
		WHERE tos_id = $1
	`, tosID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get terms document: %w", err)
	}
	return doc, nil
}

// List filters in process: predicates may address arbitrary nested notice
// fields, which the query engine evaluates uniformly across backends.
func (s *PostgresStore) List(ctx context.Context, p query.Predicate) ([]*models.TermsDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tos_id, link, creation_date, notice_type
		FROM terms_documents
		ORDER BY tos_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list terms documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.TermsDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan terms document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terms documents: %w", err)
	}
	return query.Filter(docs, p), nil
}

func scanDocument(row rowScanner) (*models.TermsDocument, error) {
	var (
		doc     models.TermsDocument
		notices []byte
	)
	if err := row.Scan(&doc.TosID, &doc.Link, &doc.CreationDate, &notices); err != nil {
		return nil, err
	}
	doc.NoticeType = models.NoticeType{}
	if len(notices) > 0 {
		if err := json.Unmarshal(notices, &doc.NoticeType); err != nil {
			return nil, fmt.Errorf("decode notice type: %w", err)
		}
	}
	doc.CreationDate = doc.CreationDate.UTC()
	return &doc, nil
}
