package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// RedisStore keeps records in Redis with EXPIREAT and uses WATCH/MULTI for
// conditional writes, so it is safe across several service instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(email string) string {
	return keyPrefix + NormalizeEmail(email)
}

func (s *RedisStore) Get(ctx context.Context, email string) (*Record, error) {
	b, err := s.client.Get(ctx, redisKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get otp: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode otp record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec *Record, expectedVersion int64) error {
	key := redisKey(rec.Email)

	next := *rec
	next.Version = expectedVersion + 1
	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode otp record: %w", err)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		var current int64
		b, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var stored Record
			if err := json.Unmarshal(b, &stored); err != nil {
				return fmt.Errorf("decode otp record: %w", err)
			}
			current = stored.Version
		}
		if current != expectedVersion {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.ExpireAt(ctx, key, rec.ExpiryTime.Add(ExpiryGrace))
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		rec.Version = next.Version
		return nil
	case errors.Is(err, redis.TxFailedErr), errors.Is(err, ErrVersionConflict):
		return ErrVersionConflict
	default:
		return fmt.Errorf("redis save otp: %w", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, redisKey(email)).Err(); err != nil {
		return fmt.Errorf("redis delete otp: %w", err)
	}
	return nil
}
