package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Service records the transcript and builds the NLU input. It satisfies nlu.ContextBuilder.
type Service struct {
	repo     Repository
	strategy ContextStrategy
}

func NewService(repo Repository, strategy ContextStrategy) *Service {
	return &Service{repo: repo, strategy: strategy}
}

// ProcessMessage stores the user message and returns it wrapped in the recent conversation.
// The current message is not part of the context block.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, query string) (string, error) {
	history, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation: %w", err)
	}

	if err := s.repo.AddMessage(ctx, sessionID, schema.UserMessage(query)); err != nil {
		return "", fmt.Errorf("failed to record user message: %w", err)
	}

	var fullContext strings.Builder
	fullContext.WriteString(s.strategy.BuildContext(history.Messages))
	fullContext.WriteString("\n<current_message_to_analyze>\n")
	fullContext.WriteString("UserMessage(" + query + ")\n")
	fullContext.WriteString("</current_message_to_analyze>")

	return fullContext.String(), nil
}

// SaveResponse saves the assistant's response to conversation history
func (s *Service) SaveResponse(ctx context.Context, sessionID, response string) error {
	if err := s.repo.AddMessage(ctx, sessionID, schema.AssistantMessage(response, nil)); err != nil {
		return fmt.Errorf("failed to record assistant message: %w", err)
	}
	return nil
}

// GetHistory returns the full conversation history
func (s *Service) GetHistory(ctx context.Context, sessionID string) (*ConversationHistory, error) {
	return s.repo.Load(ctx, sessionID)
}
