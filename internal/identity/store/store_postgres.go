package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tosgate/internal/identity/models"
	id "tosgate/pkg/domain"
	"tosgate/pkg/platform/sentinel"
)

// PostgresStore persists claims documents in identity_claims. Writes are
// optimistic: the version column guards every update.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*models.Record, error) {
	var (
		raw     []byte
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT claims, version FROM identity_claims WHERE user_id = $1`,
		userID.String(),
	).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Record{UserID: userID, Claims: models.Claims{}}, nil
		}
		return nil, fmt.Errorf("get claims: %w", err)
	}

	claims, err := models.DecodeClaims(raw)
	if err != nil {
		return nil, err
	}
	return &models.Record{UserID: userID, Claims: claims, Version: version}, nil
}

func (s *PostgresStore) CompareAndSwap(ctx context.Context, userID id.UserID, expectedVersion int64, claims models.Claims) (int64, error) {
	raw, err := claims.Encode()
	if err != nil {
		return 0, err
	}

	var res sql.Result
	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO identity_claims (user_id, claims, version, updated_at)
			VALUES ($1, $2, 1, NOW())
			ON CONFLICT (user_id) DO NOTHING
		`, userID.String(), raw)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE identity_claims
			SET claims = $3, version = version + 1, updated_at = NOW()
			WHERE user_id = $1 AND version = $2
		`, userID.String(), expectedVersion, raw)
	}
	if err != nil {
		return 0, fmt.Errorf("compare and swap claims: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("compare and swap claims: %w", err)
	}
	if rows == 0 {
		return 0, sentinel.ErrConflict
	}
	return expectedVersion + 1, nil
}

func (s *PostgresStore) SetClaims(ctx context.Context, userID id.UserID, claims models.Claims) error {
	raw, err := claims.Encode()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO identity_claims (user_id, claims, version, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET claims = EXCLUDED.claims, version = identity_claims.version + 1, updated_at = NOW()
	`, userID.String(), raw)
	if err != nil {
		return fmt.Errorf("set claims: %w", err)
	}
	return nil
}
