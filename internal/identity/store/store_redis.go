package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"tosgate/internal/identity/models"
	id "tosgate/pkg/domain"
	"tosgate/pkg/platform/sentinel"
)

const (
	fieldClaims  = "claims"
	fieldVersion = "version"
)

// RedisStore keeps each claims document in a hash at identity/claims/{userID}.
// CompareAndSwap uses WATCH/MULTI so a concurrent writer aborts the transaction.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func claimsKey(userID id.UserID) string {
	return "identity/claims/" + userID.String()
}

func (s *RedisStore) Get(ctx context.Context, userID id.UserID) (*models.Record, error) {
	return readRecord(ctx, s.client, userID)
}

func (s *RedisStore) CompareAndSwap(ctx context.Context, userID id.UserID, expectedVersion int64, claims models.Claims) (int64, error) {
	raw, err := claims.Encode()
	if err != nil {
		return 0, err
	}
	key := claimsKey(userID)
	newVersion := expectedVersion + 1

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != expectedVersion {
			return sentinel.ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldClaims, raw, fieldVersion, newVersion)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) || errors.Is(err, sentinel.ErrConflict) {
			return 0, sentinel.ErrConflict
		}
		return 0, fmt.Errorf("compare and swap claims: %w", err)
	}
	return newVersion, nil
}

func (s *RedisStore) SetClaims(ctx context.Context, userID id.UserID, claims models.Claims) error {
	raw, err := claims.Encode()
	if err != nil {
		return err
	}
	key := claimsKey(userID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldClaims, raw)
		pipe.HIncrBy(ctx, key, fieldVersion, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set claims: %w", err)
	}
	return nil
}

func readRecord(ctx context.Context, c redis.Cmdable, userID id.UserID) (*models.Record, error) {
	values, err := c.HMGet(ctx, claimsKey(userID), fieldClaims, fieldVersion).Result()
	if err != nil {
		return nil, fmt.Errorf("get claims: %w", err)
	}
	record := &models.Record{UserID: userID, Claims: models.Claims{}}
	if raw, ok := values[0].(string); ok {
		claims, err := models.DecodeClaims([]byte(raw))
		if err != nil {
			return nil, err
		}
		record.Claims = claims
	}
	if v, ok := values[1].(string); ok {
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse claims version: %w", err)
		}
		record.Version = version
	}
	return record, nil
}

func readVersion(ctx context.Context, c redis.Cmdable, key string) (int64, error) {
	v, err := c.HGet(ctx, key, fieldVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read claims version: %w", err)
	}
	return v, nil
}
