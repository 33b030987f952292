package config

import (
	"fmt"
	"os"
)

// EmbeddingConfig defines configuration for the embedding provider.
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"`    // Provider type: "gemini"
	Model      string `mapstructure:"model"`       // Model name/ID
	APIKey     string `mapstructure:"api_key"`     // API key (can be set directly or via env var)
	APIKeyEnv  string `mapstructure:"api_key_env"` // Environment variable name for API key
	BaseURL    string `mapstructure:"base_url"`    // Override base URL (tests, proxies)
	Dimensions int    `mapstructure:"dimensions"`  // Embedding vector dimensions
}

// ResolveEnvVars resolves environment variable references in the configuration.
// A directly set APIKey takes precedence over APIKeyEnv.
func (c *EmbeddingConfig) ResolveEnvVars() {
	if c.APIKeyEnv != "" && c.APIKey == "" {
		if val := os.Getenv(c.APIKeyEnv); val != "" {
			c.APIKey = val
		}
	}
}

// IsConfigured reports whether the provider credential is present.
// Callers use this to short-circuit with a clear error instead of
// attempting a network call that cannot succeed.
func (c *EmbeddingConfig) IsConfigured() bool {
	return c.APIKey != ""
}

// Validate checks that the embedding configuration has all required fields.
// Returns an error describing the first validation failure, or nil if valid.
func (c *EmbeddingConfig) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("embedding: provider is required")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: model is required")
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("embedding: dimensions must be positive")
	}

	switch c.Provider {
	case "gemini":
		// Valid providers
	default:
		return fmt.Errorf("embedding: unknown provider %q", c.Provider)
	}

	return nil
}

// ValidateWithAPIKey validates the configuration including API key requirement.
// Use this when the embedding will actually be used (not just configured).
func (c *EmbeddingConfig) ValidateWithAPIKey() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsConfigured() {
		return fmt.Errorf("embedding: api_key is required (set directly or via %s)", c.APIKeyEnv)
	}
	return nil
}
