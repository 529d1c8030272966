package src

import (
	"banking_assistant/src/model"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogConfig          model.LogConfig          `envconfig:""`
	NLUConfig          model.NLUConfig          `envconfig:""`
	DSTConfig          model.DSTConfig          `envconfig:""`
	ConversationConfig model.ConversationConfig `envconfig:""`
	AppConfig          model.AppConfig          `envconfig:""`
	MetricsConfig      model.MetricsConfig      `envconfig:""`
}

func LoadConfig() (*Config, error) {
	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	return &config, nil
}
