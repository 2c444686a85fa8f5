package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tosgate/internal/terms/models"
	"tosgate/internal/terms/query"
	"tosgate/pkg/platform/sentinel"
	"tosgate/pkg/validation"
)

// Error Contract:
// - Put returns an error wrapping sentinel.ErrInvalidInput for malformed documents.
// - Get returns sentinel.ErrNotFound when no document exists at the id.
// - List never returns ErrNotFound; no match is an empty slice.
// - Infrastructure failures are wrapped with context.

// Store is the durable mapping from tosId to terms document.
type Store interface {
	// Put creates or overwrites the document at doc.TosID.
	Put(ctx context.Context, doc *models.TermsDocument) error
	Get(ctx context.Context, tosID string) (*models.TermsDocument, error)
	// List returns the documents matching p, ordered by tosId.
	List(ctx context.Context, p query.Predicate) ([]*models.TermsDocument, error)
}

func validateDocument(doc *models.TermsDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: terms document is required", sentinel.ErrInvalidInput)
	}
	if err := validation.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", sentinel.ErrInvalidInput, err.Error())
	}
	// tosId is a single path segment.
	if strings.Contains(doc.TosID, "/") {
		return fmt.Errorf("%w: tos_id must not contain '/'", sentinel.ErrInvalidInput)
	}
	return nil
}

func encodeDocument(doc *models.TermsDocument) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode terms document: %w", err)
	}
	return raw, nil
}

func decodeDocument(raw []byte) (*models.TermsDocument, error) {
	var doc models.TermsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode terms document: %w", err)
	}
	if doc.NoticeType == nil {
		doc.NoticeType = models.NoticeType{}
	}
	return &doc, nil
}

// cloneDocument deep-copies doc so callers never share notice maps with the store.
func cloneDocument(doc *models.TermsDocument) (*models.TermsDocument, error) {
	raw, err := encodeDocument(doc)
	if err != nil {
		return nil, err
	}
	return decodeDocument(raw)
}
