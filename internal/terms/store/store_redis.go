package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"tosgate/internal/terms/models"
	"tosgate/internal/terms/query"
	"tosgate/pkg/platform/sentinel"
)

// indexKey is a set of every stored tosId, used by List.
const indexKey = "terms/agreements/tos:index"

// RedisStore keeps each document as JSON at its storage path.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, doc *models.TermsDocument) error {
	if err := validateDocument(doc); err != nil {
		return err
	}
	raw, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, doc.Path(), raw, 0)
		pipe.SAdd(ctx, indexKey, doc.TosID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put terms document: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, tosID string) (*models.TermsDocument, error) {
	raw, err := s.client.Get(ctx, models.DocumentPath(tosID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get terms document: %w", err)
	}
	return decodeDocument(raw)
}

func (s *RedisStore) List(ctx context.Context, p query.Predicate) ([]*models.TermsDocument, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list terms index: %w", err)
	}
	if len(ids) == 0 {
		return []*models.TermsDocument{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, tosID := range ids {
		keys[i] = models.DocumentPath(tosID)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list terms documents: %w", err)
	}

	docs := make([]*models.TermsDocument, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Indexed but missing; skip rather than fail the whole listing.
			continue
		}
		doc, err := decodeDocument([]byte(raw))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return query.Filter(docs, p), nil
}
