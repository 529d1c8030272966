package conversation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNLUContextStrategy(t *testing.T) {
	strategy := NewNLUContextStrategy(2)
	messages := []*schema.Message{
		schema.UserMessage("send money to Antonio"),
		schema.AssistantMessage("How much do you want to send?", nil),
		schema.UserMessage("$50"),
	}

	got := strategy.BuildContext(messages)

	assert.Equal(t, "<conversation_context>\nAssistantMessage(How much do you want to send?)\nUserMessage($50)\n</conversation_context>", got)
	assert.Equal(t, 2, strategy.GetMaxTurns())
	assert.Equal(t, defaultMaxTurns, NewNLUContextStrategy(0).GetMaxTurns())
}

func TestServiceProcessMessage(t *testing.T) {
	ctx := context.Background()
	service := NewService(NewMemoryRepository(), NewNLUContextStrategy(6))

	require.NoError(t, service.SaveResponse(ctx, "s1", "How can I help you?"))

	input, err := service.ProcessMessage(ctx, "s1", "check my balance")
	require.NoError(t, err)
	assert.Equal(t, "<conversation_context>\nAssistantMessage(How can I help you?)\n</conversation_context>\n"+
		"<current_message_to_analyze>\nUserMessage(check my balance)\n</current_message_to_analyze>", input)

	history, err := service.GetHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[1].Role)
	assert.Equal(t, "check my balance", history.Messages[1].Content)

	other, err := service.GetHistory(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Messages)
}

type failingRepository struct{ *MemoryRepository }

func (failingRepository) Load(context.Context, string) (*ConversationHistory, error) {
	return nil, errors.New("connection refused")
}

func TestServiceProcessMessage_RepositoryError(t *testing.T) {
	service := NewService(failingRepository{NewMemoryRepository()}, NewNLUContextStrategy(6))

	_, err := service.ProcessMessage(context.Background(), "s1", "hi")
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisRepository(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	repo, err := NewRedisRepository(ctx, redisURL, time.Minute)
	require.NoError(t, err)
	defer repo.Close()

	sessionID := fmt.Sprintf("test-%s", uuid.NewString())
	defer repo.client.Del(ctx, repo.key(sessionID))

	empty, err := repo.Load(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, empty.Messages)

	require.NoError(t, repo.AddMessage(ctx, sessionID, schema.UserMessage("send $50 to Antonio")))
	require.NoError(t, repo.AddMessage(ctx, sessionID, schema.AssistantMessage("From which account?", nil)))

	history, err := repo.Load(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "From which account?", history.Messages[1].Content)
}

func TestNewRedisRepository_RequiresURL(t *testing.T) {
	_, err := NewRedisRepository(context.Background(), "", time.Minute)
	assert.Error(t, err)
}
