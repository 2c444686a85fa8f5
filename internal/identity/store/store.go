package store

import (
	"context"

	"tosgate/internal/identity/models"
	id "tosgate/pkg/domain"
)

// Error Contract:
// - Get never returns ErrNotFound: a user without claims is an empty record at version 0.
// - CompareAndSwap returns sentinel.ErrConflict when the stored version differs from expected.
// - Infrastructure failures are wrapped with context.

// Store is the identity provider's per-user claims document.
type Store interface {
	Get(ctx context.Context, userID id.UserID) (*models.Record, error)
	// CompareAndSwap replaces the whole claims document if the stored version
	// equals expectedVersion, and returns the new version. expectedVersion 0
	// creates the document.
	CompareAndSwap(ctx context.Context, userID id.UserID, expectedVersion int64, claims models.Claims) (int64, error)
	// SetClaims overwrites unconditionally. Used for seeding and admin tooling.
	SetClaims(ctx context.Context, userID id.UserID, claims models.Claims) error
}
