package model

import "time"

// LogConfig holds configuration for the global logger
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"` // json or console
	Output     string `envconfig:"LOG_OUTPUT" default:"stderr"`  // stdout, stderr or file
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/assistant.log"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
}

// DSTConfig holds the thresholds of the dialogue state tracker
type DSTConfig struct {
	// Intent probability at or above which a prediction is acted on without confirmation.
	ConfidenceThreshold float32 `envconfig:"DST_CONFIDENCE_THRESHOLD" default:"0.8"`
	// Minimum similarity for contact, account and currency matching.
	SimilarityThreshold float64 `envconfig:"DST_SIMILARITY_THRESHOLD" default:"0.75"`
}

// ConversationConfig holds configuration for the transcript store
type ConversationConfig struct {
	RedisURL string        `envconfig:"REDIS_URL"`
	TTL      time.Duration `envconfig:"CONVERSATION_TTL" default:"24h"`
	MaxTurns int           `envconfig:"CONVERSATION_MAX_TURNS" default:"6"`
}

// AppConfig holds configuration for the CLI host
type AppConfig struct {
	FixturePath string        `envconfig:"FIXTURE_PATH" default:"fixtures/bank.yaml"`
	SessionID   string        `envconfig:"SESSION_ID"`
	SessionTTL  time.Duration `envconfig:"SESSION_TTL" default:"1h"`
}

// MetricsConfig holds configuration for the prometheus endpoint
type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR"`
}
