// Package conversation keeps the transcript of a session and turns it into prompt context
// for the NLU extractor.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "conversation:"

type ConversationHistory struct {
	Messages []*schema.Message `json:"messages"`
}

type Repository interface {
	Load(ctx context.Context, sessionID string) (*ConversationHistory, error)
	Save(ctx context.Context, sessionID string, history *ConversationHistory) error
	AddMessage(ctx context.Context, sessionID string, message *schema.Message) error
}

type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository connects to redisURL and checks the connection.
func NewRedisRepository(ctx context.Context, redisURL string, ttl time.Duration) (*RedisRepository, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required for the conversation store")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRepositoryWithClient(client, ttl), nil
}

func NewRedisRepositoryWithClient(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) key(sessionID string) string {
	return keyPrefix + sessionID
}

// Load returns an empty history for an unknown session and refreshes the TTL of a known one.
func (r *RedisRepository) Load(ctx context.Context, sessionID string) (*ConversationHistory, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &ConversationHistory{Messages: []*schema.Message{}}, nil
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var history ConversationHistory
	if err := sonic.UnmarshalString(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}

	r.client.Expire(ctx, r.key(sessionID), r.ttl)
	return &history, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, history *ConversationHistory) error {
	data, err := sonic.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

func (r *RedisRepository) AddMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	return addMessage(ctx, r, sessionID, message)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func addMessage(ctx context.Context, repo Repository, sessionID string, message *schema.Message) error {
	history, err := repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	history.Messages = append(history.Messages, message)
	return repo.Save(ctx, sessionID, history)
}

// MemoryRepository keeps transcripts in process. Used when no Redis is configured.
type MemoryRepository struct {
	histories map[string][]*schema.Message
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{histories: make(map[string][]*schema.Message)}
}

func (m *MemoryRepository) Load(_ context.Context, sessionID string) (*ConversationHistory, error) {
	messages := append([]*schema.Message{}, m.histories[sessionID]...)
	return &ConversationHistory{Messages: messages}, nil
}

func (m *MemoryRepository) Save(_ context.Context, sessionID string, history *ConversationHistory) error {
	m.histories[sessionID] = append([]*schema.Message(nil), history.Messages...)
	return nil
}

func (m *MemoryRepository) AddMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	return addMessage(ctx, m, sessionID, message)
}
