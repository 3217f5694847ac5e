package authlockout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "authlockout:"

const (
	fieldFailures    = "failures"
	fieldWindowStart = "window_start"
	fieldLockedUntil = "locked_until"
)

// RedisStore shares lockout records across instances. A record is a hash
// whose TTL is the window, extended to the lock end once locked.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("get auth lockout: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return parseRecord(key, fields)
}

// RecordFailure increments the counter atomically. The window starts with the
// first failure and ends when the hash expires.
func (s *RedisStore) RecordFailure(ctx context.Context, key string, now time.Time, window time.Duration) (*Record, error) {
	k := redisKeyPrefix + key
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.HIncrBy(ctx, k, fieldFailures, 1)
		p.HSetNX(ctx, k, fieldWindowStart, now.UTC().Format(time.RFC3339Nano))
		p.ExpireNX(ctx, k, window)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record auth failure: %w", err)
	}
	rec, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &Record{Key: key, WindowStart: now}
	}
	rec.FailureCount = int(incr.Val())
	return rec, nil
}

func (s *RedisStore) Lock(ctx context.Context, key string, until time.Time) error {
	k := redisKeyPrefix + key
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, fieldLockedUntil, until.UTC().Format(time.RFC3339Nano))
		p.ExpireAt(ctx, k, until)
		return nil
	})
	if err != nil {
		return fmt.Errorf("lock auth identifier: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("clear auth lockout: %w", err)
	}
	return nil
}

func parseRecord(key string, fields map[string]string) (*Record, error) {
	rec := &Record{Key: key}
	if v, ok := fields[fieldFailures]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse auth lockout failures: %w", err)
		}
		rec.FailureCount = n
	}
	if v, ok := fields[fieldWindowStart]; ok {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("parse auth lockout window: %w", err)
		}
		rec.WindowStart = t
	}
	if v, ok := fields[fieldLockedUntil]; ok {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("parse auth lockout lock: %w", err)
		}
		rec.LockedUntil = &t
	}
	return rec, nil
}
