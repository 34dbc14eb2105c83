package config

import (
	"os"
	"strconv"

	"github.com/ccollicutt/logsieve/pkg/webhook"
)

// Default values for configuration.
const (
	DefaultOutput         = "text"
	DefaultKind           = "auto"
	DefaultWebhookTimeout = webhook.DefaultTimeout
)

// Environment variable names.
const (
	EnvOutput = "LOGSIEVE_OUTPUT"
	EnvColor  = "LOGSIEVE_COLOR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sources:  []SourceConfig{},
		Output:   DefaultOutput,
		Collapse: true,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if out := os.Getenv(EnvOutput); out != "" {
		c.Output = out
	}
	if v := os.Getenv(EnvColor); v != "" {
		if color, err := strconv.ParseBool(v); err == nil {
			c.Color = color
		}
	}
}
