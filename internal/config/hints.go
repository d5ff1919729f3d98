package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/hints"
)

// HintsEnabled reports whether a label service endpoint is configured.
func HintsEnabled() bool {
	return viper.GetString("hints.url") != ""
}

// LoadHintsConfig reads the label service client settings.
func LoadHintsConfig() (*hints.Config, error) {
	config := hints.Config{
		URL:           viper.GetString("hints.url"),
		Timeout:       30 * time.Second,
		RetryAttempts: 3,
	}
	if viper.IsSet("hints.timeout") {
		config.Timeout = viper.GetDuration("hints.timeout")
	}
	if viper.IsSet("hints.retry_attempts") {
		config.RetryAttempts = viper.GetInt("hints.retry_attempts")
	}
	config.MinConfidence = viper.GetFloat64("hints.min_confidence")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadEngineConfig reads the processing settings shared by the CLI and server.
func LoadEngineConfig() engine.Config {
	config := engine.DefaultConfig()
	if viper.IsSet("hints.timeout") {
		config.HintTimeout = viper.GetDuration("hints.timeout")
	}
	config.MinHintConfidence = viper.GetFloat64("hints.min_confidence")
	return config
}
