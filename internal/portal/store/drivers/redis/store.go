// Package redis stores visitor entries in Redis, relying on key expiry
// instead of housekeeping.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/payportal/internal/portal/store"
)

// DefaultKeyPrefix namespaces portal keys inside a shared Redis database.
const DefaultKeyPrefix = "payportal"

type Options struct {
	Addr        string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
	Timeout     time.Duration
}

type Store struct {
	rdb    *redis.Client
	prefix string
}

// NewStore connects and pings Redis.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	const op = "redis.NewStore"

	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}, nil
}

// Key returns the Redis key for an entry.
func (s *Store) Key(namespace, key string) string {
	return s.prefix + ":" + namespace + ":" + key
}

func (s *Store) Get(ctx context.Context, namespace, key string) (string, error) {
	v, err := s.rdb.Get(ctx, s.Key(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis.Get: %w", err)
	}
	return v, nil
}

func (s *Store) Put(ctx context.Context, namespace, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, s.Key(namespace, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, namespace, key string) error {
	if err := s.rdb.Del(ctx, s.Key(namespace, key)).Err(); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires keys itself.
func (s *Store) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return s.rdb.Ping(ctx).Err() }

func (s *Store) Close() error { return s.rdb.Close() }
