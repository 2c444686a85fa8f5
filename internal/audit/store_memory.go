package audit

import (
	"context"
	"sync"
)

const defaultMaxEventsPerUser = 256

// InMemoryStore keeps the most recent events per user. Older events are
// dropped once a user's history reaches the cap.
type InMemoryStore struct {
	mu      sync.RWMutex
	byUser  map[string][]Event
	maxEach int
}

type MemoryOption func(*InMemoryStore)

// WithMaxEventsPerUser bounds each user's retained history.
func WithMaxEventsPerUser(n int) MemoryOption {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.maxEach = n
		}
	}
}

func NewInMemoryStore(opts ...MemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		byUser:  make(map[string][]Event),
		maxEach: defaultMaxEventsPerUser,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.byUser[event.UserID], event)
	if over := len(history) - s.maxEach; over > 0 {
		history = append(history[:0:0], history[over:]...)
	}
	s.byUser[event.UserID] = history
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.byUser[userID]))
	copy(out, s.byUser[userID])
	return out, nil
}
