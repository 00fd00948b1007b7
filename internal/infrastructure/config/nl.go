package config

import "time"

// NLConfig holds the natural-language scenario parser configuration
type NLConfig struct {
	// APIKey authenticates against the Gemini API. Usually set via the
	// GEMINI_API_KEY environment variable rather than the config file.
	APIKey string `mapstructure:"api_key"`

	// Model names the generation model
	Model string `mapstructure:"model"`

	// Timeout bounds a single parse request
	Timeout time.Duration `mapstructure:"timeout"`

	// RequestsPerMinute throttles parse requests
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"omitempty,min=1"`
}
