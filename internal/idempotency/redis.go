package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client    *redis.Client
	lockTTL   time.Duration
	resultTTL time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, lockTTL: DefaultLockTTL, resultTTL: DefaultResultTTL}
}

func (s *RedisStore) Begin(ctx context.Context, key string) (string, bool, error) {
	k := storageKey(key)

	acquired, err := s.client.SetNX(ctx, k, processing, s.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("claim idempotency key: %w", err)
	}
	if acquired {
		return "", false, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// lock expired between SETNX and GET
		return s.Begin(ctx, key)
	}
	if err != nil {
		return "", false, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == processing {
		return "", false, ErrInProgress
	}
	return val, true, nil
}

func (s *RedisStore) Complete(ctx context.Context, key, result string) error {
	return s.client.Set(ctx, storageKey(key), result, s.resultTTL).Err()
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, storageKey(key)).Err()
}
