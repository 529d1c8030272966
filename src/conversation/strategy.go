package conversation

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

type ContextStrategy interface {
	BuildContext(messages []*schema.Message) string
	GetMaxTurns() int
}

const defaultMaxTurns = 6

// ====================== NLU ======================
// NLUContextStrategy renders the last maxTurns messages so the extractor can read answers
// such as "the one in euros" against the question that prompted them.
type NLUContextStrategy struct {
	maxTurns int
}

// NewNLUContextStrategy falls back to the last 6 messages when maxTurns is not positive.
func NewNLUContextStrategy(maxTurns int) *NLUContextStrategy {
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &NLUContextStrategy{maxTurns: maxTurns}
}

func (s *NLUContextStrategy) GetMaxTurns() int {
	return s.maxTurns
}

func (s *NLUContextStrategy) BuildContext(messages []*schema.Message) string {
	recentMessages := trimTail(messages, s.maxTurns)

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range recentMessages {
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

// Helper function
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
