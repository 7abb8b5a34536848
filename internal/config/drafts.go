package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvDraftsTTL     = "SHORELINE_DRAFTS_TTL"
	EnvDraftsCleanup = "SHORELINE_DRAFTS_CLEANUP"
)

// DraftsConfig controls how long an idle contribution draft is kept.
type DraftsConfig struct {
	TTL     string `toml:"ttl"`
	Cleanup string `toml:"cleanup"`
}

// TTLDuration returns TTL as a time.Duration.
func (c *DraftsConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// CleanupDuration returns Cleanup as a time.Duration.
func (c *DraftsConfig) CleanupDuration() time.Duration {
	d, _ := time.ParseDuration(c.Cleanup)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DraftsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *DraftsConfig) Merge(overlay *DraftsConfig) {
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.Cleanup != "" {
		c.Cleanup = overlay.Cleanup
	}
}

func (c *DraftsConfig) loadDefaults() {
	if c.TTL == "" {
		c.TTL = "1h"
	}
	if c.Cleanup == "" {
		c.Cleanup = "10m"
	}
}

func (c *DraftsConfig) loadEnv() {
	if v := os.Getenv(EnvDraftsTTL); v != "" {
		c.TTL = v
	}
	if v := os.Getenv(EnvDraftsCleanup); v != "" {
		c.Cleanup = v
	}
}

func (c *DraftsConfig) validate() error {
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %s", c.TTL)
	}
	if _, err := time.ParseDuration(c.Cleanup); err != nil {
		return fmt.Errorf("invalid cleanup: %w", err)
	}
	return nil
}
