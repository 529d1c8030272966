// Package storage persists per-session values in Redis.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 60 * time.Minute
	sessionPrefix = "session:"
)

// ErrNotFound is returned when no value is stored under a session id.
var ErrNotFound = errors.New("session not found")

// RedisStorage stores one JSON-encoded T per session id.
type RedisStorage[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type Option func(*options)

type options struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix namespaces the keys, e.g. "session:app_context:".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// NewRedisStorage connects to redisURL and checks the connection.
func NewRedisStorage[T any](ctx context.Context, redisURL string, opts ...Option) (*RedisStorage[T], error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required for session storage")
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(redisOpts)
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStorageWithClient[T](client, opts...), nil
}

// NewRedisStorageWithClient shares an existing client.
func NewRedisStorageWithClient[T any](client *redis.Client, opts ...Option) *RedisStorage[T] {
	o := options{prefix: sessionPrefix, ttl: SessionTTL}
	for _, opt := range opts {
		opt(&o)
	}
	return &RedisStorage[T]{client: client, prefix: o.prefix, ttl: o.ttl}
}

// key generates a Redis key for the given session ID
func (r *RedisStorage[T]) key(sessionID string) string {
	return r.prefix + sessionID
}

// Set stores the value with the storage TTL
func (r *RedisStorage[T]) Set(ctx context.Context, sessionID string, value T) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session data: %w", err)
	}
	return nil
}

// GetAndTouch reads the value and extends its TTL in one round trip
func (r *RedisStorage[T]) GetAndTouch(ctx context.Context, sessionID string) (T, error) {
	var value T
	data, err := r.client.GetEx(ctx, r.key(sessionID), r.ttl).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return value, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return value, fmt.Errorf("failed to GETEX: %w", err)
	}

	if err := sonic.UnmarshalString(data, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return value, nil
}

// Client exposes the connection so other stores can share it.
func (r *RedisStorage[T]) Client() *redis.Client {
	return r.client
}

// Close closes the Redis connection
func (r *RedisStorage[T]) Close() error {
	return r.client.Close()
}
