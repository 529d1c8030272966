package nlu

import (
	"banking_assistant/src/logger"
	"banking_assistant/src/model"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// Constants for parsing configuration
const (
	DefaultRecordDelimiter     = "##"
	DefaultTupleDelimiter      = "<||>"
	DefaultCompletionDelimiter = "<|COMPLETE|>"
	MaxTupleLength             = 2000
	MaxMetadataLength          = 5000
	MaxMetadataFields          = 50
)

// ErrNoIntent is returned when the model output holds no usable intent tuple.
var ErrNoIntent = errors.New("no intent tuple in model output")

// RawTuple represents a parsed tuple with string parts
type RawTuple struct {
	Type  string
	Parts []string
}

// TupleParser interface for type-specific parsing
type TupleParser interface {
	Parse(raw *RawTuple) error
	AddTo(prediction *predictionBuilder)
}

// predictionBuilder collects every parsed tuple before the best intent is picked.
type predictionBuilder struct {
	intents  []scoredIntent
	entities []model.ExtractedEntity
}

type scoredIntent struct {
	intent      model.IntentType
	probability float32
}

// TupleProcessor splits the model output into records and tuples
type TupleProcessor struct {
	config *ProcessorConfig
}

// ProcessorConfig contains parsing configuration
type ProcessorConfig struct {
	RecordDelimiter     string
	TupleDelimiter      string
	CompletionDelimiter string
}

type IntentParser struct {
	scoredIntent
}

type EntityParser struct {
	entity model.ExtractedEntity
}

// NewTupleProcessor creates a processor with the default delimiters
func NewTupleProcessor() *TupleProcessor {
	return &TupleProcessor{
		config: &ProcessorConfig{
			RecordDelimiter:     DefaultRecordDelimiter,
			TupleDelimiter:      DefaultTupleDelimiter,
			CompletionDelimiter: DefaultCompletionDelimiter,
		},
	}
}

// Validation utility functions
func validateString(s string, maxLength int, fieldName string) error {
	if s == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	if len(s) > maxLength {
		return fmt.Errorf("%s too long: %d characters (max: %d)", fieldName, len(s), maxLength)
	}
	if !utf8.ValidString(s) {
		return fmt.Errorf("%s contains invalid UTF-8 characters", fieldName)
	}
	return nil
}

// parseProbability reads a probability and clamps it to [0, 1].
func parseProbability(s string) (float32, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid probability: %s", s)
	}
	return float32(min(max(value, 0), 1)), nil
}

// parseMetadataJSON validates the optional trailing metadata object. The assistant does not
// use its content, but a malformed object means the tuple itself is not trustworthy.
func parseMetadataJSON(metadataStr string) (map[string]any, error) {
	metadataStr = strings.TrimSpace(metadataStr)
	if metadataStr == "" {
		return map[string]any{}, nil
	}

	if err := validateString(metadataStr, MaxMetadataLength, "metadata"); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(metadataStr, "{") || !strings.HasSuffix(metadataStr, "}") {
		return nil, fmt.Errorf("metadata not in JSON object format")
	}

	var parsed map[string]any
	if err := sonic.UnmarshalString(metadataStr, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
	}
	if len(parsed) > MaxMetadataFields {
		return nil, fmt.Errorf("too many metadata fields: %d (max: %d)", len(parsed), MaxMetadataFields)
	}
	return parsed, nil
}

// (intent<||>send_money<||>0.93[<||>metadata])
func (p *IntentParser) Parse(raw *RawTuple) error {
	if len(raw.Parts) < 3 {
		return fmt.Errorf("intent tuple requires at least 3 parts, got %d", len(raw.Parts))
	}

	name := strings.TrimSpace(raw.Parts[1])
	if err := validateString(name, 100, "intent name"); err != nil {
		return err
	}
	p.intent = model.ParseIntentType(name)

	var err error
	if p.probability, err = parseProbability(raw.Parts[2]); err != nil {
		return err
	}

	if len(raw.Parts) >= 4 {
		if _, err := parseMetadataJSON(raw.Parts[3]); err != nil {
			return err
		}
	}
	return nil
}

func (p *IntentParser) AddTo(b *predictionBuilder) {
	b.intents = append(b.intents, p.scoredIntent)
}

// (entity<||>amount<||>$50<||>0.91[<||>metadata])
func (p *EntityParser) Parse(raw *RawTuple) error {
	if len(raw.Parts) < 4 {
		return fmt.Errorf("entity tuple requires at least 4 parts, got %d", len(raw.Parts))
	}

	label := strings.TrimSpace(raw.Parts[1])
	entityType, ok := model.ParseEntityType(label)
	if !ok {
		return fmt.Errorf("unknown entity type: %s", label)
	}
	p.entity.Type = entityType

	p.entity.RawText = strings.TrimSpace(raw.Parts[2])
	if err := validateString(p.entity.RawText, 500, "entity value"); err != nil {
		return err
	}

	var err error
	if p.entity.Probability, err = parseProbability(raw.Parts[3]); err != nil {
		return err
	}

	if len(raw.Parts) >= 5 {
		if _, err := parseMetadataJSON(raw.Parts[4]); err != nil {
			return err
		}
	}
	return nil
}

func (p *EntityParser) AddTo(b *predictionBuilder) {
	b.entities = append(b.entities, p.entity)
}

// Factory function to create appropriate parser based on tuple type
func createParser(tupleType string) (TupleParser, error) {
	switch strings.ToLower(tupleType) {
	case "intent":
		return &IntentParser{}, nil
	case "entity":
		return &EntityParser{}, nil
	default:
		return nil, fmt.Errorf("unknown tuple type: %s", tupleType)
	}
}

// parseRawTuple converts a tuple string into a structured RawTuple
// Example input: "(entity<||>user<||>Antonio<||>0.88)"
func (n *TupleProcessor) parseRawTuple(tupleStr string) (*RawTuple, error) {
	if err := validateString(tupleStr, MaxTupleLength, "tuple string"); err != nil {
		return nil, err
	}

	tupleStr = strings.TrimSuffix(strings.TrimPrefix(tupleStr, "("), ")")

	parts := strings.Split(tupleStr, n.config.TupleDelimiter)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid tuple format: expected at least 3 parts, got %d", len(parts))
	}

	tupleType := strings.TrimSpace(parts[0])
	if tupleType == "" {
		return nil, fmt.Errorf("tuple type cannot be empty")
	}

	return &RawTuple{
		Type:  tupleType,
		Parts: parts,
	}, nil
}

// ParseResponse turns the model output into an IntentPrediction. Malformed tuples are
// skipped with a warning; an output without any intent tuple is an error.
func (n *TupleProcessor) ParseResponse(content string) (model.IntentPrediction, error) {
	var b predictionBuilder

	for _, record := range strings.Split(content, n.config.RecordDelimiter) {
		trimmed := strings.TrimSpace(strings.ReplaceAll(record, n.config.CompletionDelimiter, ""))
		if trimmed == "" {
			continue
		}
		if err := n.parseRecord(trimmed, &b); err != nil {
			logger.Warn().Err(err).Str("tuple", trimmed).Msg("Skipping NLU tuple")
		}
	}

	if len(b.intents) == 0 {
		return model.IntentPrediction{}, ErrNoIntent
	}

	best := b.intents[0]
	for _, i := range b.intents[1:] {
		if i.probability > best.probability {
			best = i
		}
	}

	return model.IntentPrediction{
		Intent:      best.intent,
		Probability: best.probability,
		Entities:    b.entities,
	}, nil
}

// parseRecord orchestrates: raw parsing -> type-specific parsing -> prediction integration
func (n *TupleProcessor) parseRecord(record string, b *predictionBuilder) error {
	rawTuple, err := n.parseRawTuple(record)
	if err != nil {
		return err
	}

	parser, err := createParser(rawTuple.Type)
	if err != nil {
		return err
	}

	if err := parser.Parse(rawTuple); err != nil {
		return err
	}

	parser.AddTo(b)
	return nil
}
