// Package nlu recognizes the intent and banking entities of an utterance with an LLM.
package nlu

import (
	"banking_assistant/src/logger"
	"banking_assistant/src/metrics"
	"banking_assistant/src/model"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ErrExtraction wraps every failure to analyze an utterance.
var ErrExtraction = errors.New("nlu extraction failed")

const slowAnalysis = 5 * time.Second

// ContextBuilder records an utterance and returns the prompt input enriched with the
// conversation so far.
type ContextBuilder interface {
	ProcessMessage(ctx context.Context, sessionID, query string) (string, error)
}

// Extractor runs the Template → ChatModel chain and parses its tuples.
type Extractor struct {
	chain     compose.Runnable[map[string]any, *schema.Message]
	processor *TupleProcessor
	history   ContextBuilder
	sessionID string
	timeout   time.Duration
}

type Option func(*Extractor)

// WithHistory feeds the conversation of sessionID into every prompt.
func WithHistory(history ContextBuilder, sessionID string) Option {
	return func(e *Extractor) {
		e.history = history
		e.sessionID = sessionID
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(e *Extractor) { e.timeout = timeout }
}

// NewExtractor creates the chat model described by cfg and wires the chain around it.
func NewExtractor(ctx context.Context, cfg model.NLUConfig, opts ...Option) (*Extractor, error) {
	chatModel, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewExtractorWithModel(ctx, chatModel, append([]Option{WithTimeout(cfg.Timeout)}, opts...)...)
}

// NewExtractorWithModel wires the chain around an existing chat model.
func NewExtractorWithModel(ctx context.Context, chatModel einomodel.BaseChatModel, opts ...Option) (*Extractor, error) {
	processor := NewTupleProcessor()

	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(createNLUTemplate(processor.config)).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating Eino chain: %w", err)
	}

	e := &Extractor{chain: chain, processor: processor}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Recognize analyzes one utterance. Every error wraps ErrExtraction.
func (e *Extractor) Recognize(ctx context.Context, transcript string) (model.IntentPrediction, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return model.IntentPrediction{}, fmt.Errorf("%w: empty utterance", ErrExtraction)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	log := logger.FromContext(ctx)

	input := transcript
	if e.history != nil {
		withHistory, err := e.history.ProcessMessage(ctx, e.sessionID, transcript)
		if err != nil {
			log.Warn().Err(err).Str("session_id", e.sessionID).Msg("Conversation history unavailable, analyzing message alone")
		} else {
			input = withHistory
		}
	}

	log.Debug().Int("message_length", len(transcript)).Msg("Analyzing message with NLU")
	start := time.Now()

	out, err := e.chain.Invoke(ctx, templateVariables(input))
	elapsed := time.Since(start)
	metrics.ExtractorLatency.Observe(elapsed.Seconds())
	if err != nil {
		return model.IntentPrediction{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	prediction, err := e.processor.ParseResponse(out.Content)
	if err != nil {
		return model.IntentPrediction{}, fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	log.Debug().
		Str("intent", string(prediction.Intent)).
		Float32("probability", prediction.Probability).
		Int("entities_found", len(prediction.Entities)).
		Dur("analysis_time", elapsed).
		Msg("NLU analysis completed")
	if elapsed > slowAnalysis {
		log.Warn().Dur("analysis_time", elapsed).Int("message_length", len(transcript)).Msg("Slow NLU analysis detected")
	}

	return prediction, nil
}
