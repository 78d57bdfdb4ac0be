// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// APIKey may be empty; calls then fail with a config error instead
	// of the provider refusing to construct.
	APIKey  string
	BaseURL string
	Model   string

	Timeout     time.Duration
	Temperature float32
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("CHAT_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai/",
		Model:       "gemini-2.5-flash",
		Timeout:     2 * time.Minute,
		Temperature: 0.7,
	}
}
