package model

import (
	"strings"
	"time"
)

// ----------------------------------------------------
// ================ Config ================
// NLUConfig holds configuration for the NLU extractor
type NLUConfig struct {
	Provider    string        `envconfig:"NLU_PROVIDER" default:"openai"`
	Model       string        `envconfig:"NLU_MODEL" default:"openai/gpt-4o-mini"`
	APIKey      string        `envconfig:"NLU_API_KEY"`
	BaseURL     string        `envconfig:"NLU_BASE_URL" default:"https://openrouter.ai/api/v1"`
	MaxTokens   int           `envconfig:"NLU_MAX_TOKENS" default:"512"`
	Temperature float64       `envconfig:"NLU_TEMPERATURE" default:"0.1"`
	Timeout     time.Duration `envconfig:"NLU_TIMEOUT" default:"30s"`
}

// ----------------------------------------------------
// ================ Intents ================
// IntentType is the label the extractor assigns to a user turn
type IntentType string

const (
	IntentNone              IntentType = "none"
	IntentCheckBalance      IntentType = "checkBalance"
	IntentCheckTransactions IntentType = "checkTransactions"
	IntentSendMoney         IntentType = "sendMoney"
	IntentRequestMoney      IntentType = "requestMoney"
	IntentYes               IntentType = "yes"
	IntentNo                IntentType = "no"
)

// IntentTypes lists every intent in a stable order.
func IntentTypes() []IntentType {
	return []IntentType{
		IntentNone, IntentCheckBalance, IntentCheckTransactions,
		IntentSendMoney, IntentRequestMoney, IntentYes, IntentNo,
	}
}

// IsTask reports whether the intent asks for a banking operation.
func (i IntentType) IsTask() bool {
	switch i {
	case IntentCheckBalance, IntentCheckTransactions, IntentSendMoney, IntentRequestMoney:
		return true
	}
	return false
}

// ParseIntentType accepts camelCase and snake_case labels. Unknown labels map to IntentNone.
func ParseIntentType(label string) IntentType {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), "_", ""))
	for _, intent := range IntentTypes() {
		if strings.ToLower(string(intent)) == key {
			return intent
		}
	}
	return IntentNone
}

// ----------------------------------------------------
// ================ Entities ================
// EntityType is the kind of span the extractor found
type EntityType string

const (
	EntityAmount   EntityType = "amount"
	EntityBank     EntityType = "bank"
	EntityCurrency EntityType = "currency"
	EntityUser     EntityType = "user"
)

// ParseEntityType returns false for labels outside the banking entity set.
func ParseEntityType(label string) (EntityType, bool) {
	switch t := EntityType(strings.ToLower(strings.TrimSpace(label))); t {
	case EntityAmount, EntityBank, EntityCurrency, EntityUser:
		return t, true
	}
	return "", false
}

// ExtractedEntity is one span produced by the extractor
type ExtractedEntity struct {
	Type        EntityType `json:"type"`
	RawText     string     `json:"raw_text"`
	Probability float32    `json:"probability"`
}

// IntentPrediction is the extractor output for one user turn
type IntentPrediction struct {
	Intent      IntentType        `json:"intent"`
	Probability float32           `json:"probability"`
	Entities    []ExtractedEntity `json:"entities"`
}
