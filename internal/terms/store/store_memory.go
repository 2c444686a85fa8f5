package store

import (
	"context"
	"sync"

	"tosgate/internal/terms/models"
	"tosgate/internal/terms/query"
	"tosgate/pkg/platform/sentinel"
)

// InMemoryStore keeps documents keyed by their storage path.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*models.TermsDocument
}

func New() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string]*models.TermsDocument)}
}

func (s *InMemoryStore) Put(_ context.Context, doc *models.TermsDocument) error {
	if err := validateDocument(doc); err != nil {
		return err
	}
	stored, err := cloneDocument(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Path()] = stored
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, tosID string) (*models.TermsDocument, error) {
	s.mu.RLock()
	doc, ok := s.docs[models.DocumentPath(tosID)]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneDocument(doc)
}

func (s *InMemoryStore) List(_ context.Context, p query.Predicate) ([]*models.TermsDocument, error) {
	s.mu.RLock()
	all := make([]*models.TermsDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		all = append(all, doc)
	}
	s.mu.RUnlock()

	matched := query.Filter(all, p)
	out := make([]*models.TermsDocument, 0, len(matched))
	for _, doc := range matched {
		clone, err := cloneDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, clone)
	}
	return out, nil
}
