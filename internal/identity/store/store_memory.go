package store

import (
	"context"
	"sync"

	"tosgate/internal/identity/models"
	id "tosgate/pkg/domain"
	"tosgate/pkg/platform/sentinel"
	platformsync "tosgate/pkg/platform/sync"
)

type entry struct {
	claims  models.Claims
	version int64
}

// InMemoryStore keeps claims documents in memory. Writers for one user are
// serialized by a sharded lock; readers always receive deep copies.
type InMemoryStore struct {
	locks *platformsync.ShardedMutex

	mu      sync.RWMutex
	records map[id.UserID]entry
}

func New() *InMemoryStore {
	return &InMemoryStore{
		locks:   platformsync.NewShardedMutex(),
		records: make(map[id.UserID]entry),
	}
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*models.Record, error) {
	s.mu.RLock()
	e, ok := s.records[userID]
	s.mu.RUnlock()

	if !ok {
		return &models.Record{UserID: userID, Claims: models.Claims{}}, nil
	}
	claims, err := e.claims.Clone()
	if err != nil {
		return nil, err
	}
	return &models.Record{UserID: userID, Claims: claims, Version: e.version}, nil
}

func (s *InMemoryStore) CompareAndSwap(_ context.Context, userID id.UserID, expectedVersion int64, claims models.Claims) (int64, error) {
	stored, err := claims.Clone()
	if err != nil {
		return 0, err
	}

	var newVersion int64
	err = s.locks.WithLock(userID.String(), func() error {
		s.mu.RLock()
		current := s.records[userID].version
		s.mu.RUnlock()

		if current != expectedVersion {
			return sentinel.ErrConflict
		}
		newVersion = current + 1

		s.mu.Lock()
		s.records[userID] = entry{claims: stored, version: newVersion}
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (s *InMemoryStore) SetClaims(_ context.Context, userID id.UserID, claims models.Claims) error {
	stored, err := claims.Clone()
	if err != nil {
		return err
	}
	return s.locks.WithLock(userID.String(), func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.records[userID] = entry{claims: stored, version: s.records[userID].version + 1}
		return nil
	})
}
