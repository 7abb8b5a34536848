package config

import (
	"fmt"
	"os"
	"time"
)

const EnvSuggestTimeout = "SHORELINE_SUGGEST_TIMEOUT"

// SuggestConfig bounds AI metadata suggestions. Whether suggestions run at
// all is a runtime setting stored in the database, not configuration.
type SuggestConfig struct {
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *SuggestConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *SuggestConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *SuggestConfig) Merge(overlay *SuggestConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *SuggestConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
}

func (c *SuggestConfig) loadEnv() {
	if v := os.Getenv(EnvSuggestTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *SuggestConfig) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}
	return nil
}
