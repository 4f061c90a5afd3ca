package httpcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	scanBatchSize      = 100
	defaultRedisPrefix = "responsecache:"
)

// RedisConfig configures the redis backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore stores responses as JSON values with a native TTL.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ interfaces.ResponseStore = (*RedisStore)(nil)

// NewRedisStore dials redis using cfg.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisStoreWithClient(client, cfg.Prefix)
}

// NewRedisStoreWithClient wraps an existing client. Keys are namespaced with
// prefix so Clear never touches foreign keys.
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (*interfaces.CachedResponse, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("httpcache redis get: %w", err)
	}
	var resp interfaces.CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, fmt.Errorf("httpcache redis decode: %w", err)
	}
	return &resp, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, resp *interfaces.CachedResponse, expiresAt time.Time) error {
	if resp == nil {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	entry := *resp
	entry.ExpiresAt = expiresAt
	data, err := json.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("httpcache redis encode: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("httpcache redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("httpcache redis delete: %w", err)
	}
	return nil
}

// Clear removes every key under the store prefix.
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("httpcache redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("httpcache redis clear: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
