package store

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"tosgate/internal/terms/models"
	"tosgate/internal/terms/query"
)

// CachedStore is a read-through cache in front of another Store. Terms
// documents are small and rarely rewritten, and acceptTerms reads one on
// every call. Put invalidates the cached entry; List is never cached.
//
// Invalidation is local to the process. With a shared backend and several
// replicas, or a Get that loads the old document while a Put is in flight,
// an overwritten document can be served stale for up to the ttl.
// A ttl of zero or less disables caching.
type CachedStore struct {
	next  Store
	ttl   time.Duration
	cache *cache.Cache
}

func NewCached(next Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		ttl:   ttl,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *CachedStore) Put(ctx context.Context, doc *models.TermsDocument) error {
	if err := s.next.Put(ctx, doc); err != nil {
		return err
	}
	s.cache.Delete(doc.TosID)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, tosID string) (*models.TermsDocument, error) {
	if s.ttl <= 0 {
		return s.next.Get(ctx, tosID)
	}
	if cached, found := s.cache.Get(tosID); found {
		return cloneDocument(cached.(*models.TermsDocument))
	}
	doc, err := s.next.Get(ctx, tosID)
	if err != nil {
		return nil, err
	}
	stored, err := cloneDocument(doc)
	if err != nil {
		return nil, err
	}
	s.cache.Set(tosID, stored, cache.DefaultExpiration)
	return doc, nil
}

func (s *CachedStore) List(ctx context.Context, p query.Predicate) ([]*models.TermsDocument, error) {
	return s.next.List(ctx, p)
}
