package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvGeolocationSamples        = "SHORELINE_GEOLOCATION_SAMPLES"
	EnvGeolocationSampleTimeout  = "SHORELINE_GEOLOCATION_SAMPLE_TIMEOUT"
	EnvGeolocationRequestTimeout = "SHORELINE_GEOLOCATION_REQUEST_TIMEOUT"
)

// GeolocationConfig controls location acquisition. Samples greater than one
// selects the most accurate of that many readings.
type GeolocationConfig struct {
	Samples        int    `toml:"samples"`
	SampleTimeout  string `toml:"sample_timeout"`
	RequestTimeout string `toml:"request_timeout"`
}

// SampleTimeoutDuration returns SampleTimeout as a time.Duration.
func (c *GeolocationConfig) SampleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.SampleTimeout)
	return d
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *GeolocationConfig) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *GeolocationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *GeolocationConfig) Merge(overlay *GeolocationConfig) {
	if overlay.Samples != 0 {
		c.Samples = overlay.Samples
	}
	if overlay.SampleTimeout != "" {
		c.SampleTimeout = overlay.SampleTimeout
	}
	if overlay.RequestTimeout != "" {
		c.RequestTimeout = overlay.RequestTimeout
	}
}

func (c *GeolocationConfig) loadDefaults() {
	if c.Samples == 0 {
		c.Samples = 3
	}
	if c.SampleTimeout == "" {
		c.SampleTimeout = "2s"
	}
	if c.RequestTimeout == "" {
		c.RequestTimeout = "10s"
	}
}

func (c *GeolocationConfig) loadEnv() {
	if v := os.Getenv(EnvGeolocationSamples); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Samples = n
		}
	}
	if v := os.Getenv(EnvGeolocationSampleTimeout); v != "" {
		c.SampleTimeout = v
	}
	if v := os.Getenv(EnvGeolocationRequestTimeout); v != "" {
		c.RequestTimeout = v
	}
}

func (c *GeolocationConfig) validate() error {
	if c.Samples < 1 {
		return fmt.Errorf("samples must be at least 1: %d", c.Samples)
	}
	if _, err := time.ParseDuration(c.SampleTimeout); err != nil {
		return fmt.Errorf("invalid sample_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	return nil
}
