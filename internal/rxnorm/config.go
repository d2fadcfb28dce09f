package rxnorm

import (
	"os"
	"strconv"
)

// Config holds all configuration for the drug-terminology client.
type Config struct {
	Endpoint      string  `yaml:"endpoint"`
	TimeoutMs     int     `yaml:"timeout_ms"`
	MaxRetries    int     `yaml:"max_retries"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
	MaxCandidates int     `yaml:"max_candidates"`
	Concurrency   int     `yaml:"concurrency"`
	LogCalls      bool    `yaml:"log_calls"`
}

// DefaultConfig returns a Config for the public RxNav service. RxNav allows
// 20 requests per second per client; the default stays under that.
func DefaultConfig() Config {
	return Config{
		Endpoint:      "https://rxnav.nlm.nih.gov/REST",
		TimeoutMs:     10000,
		MaxRetries:    0,
		RatePerSecond: 15,
		Burst:         5,
		MaxCandidates: 20,
		Concurrency:   4,
		LogCalls:      false,
	}
}

// LoadConfig reads configuration from environment variables, falling back to
// defaults for any unset values.
func LoadConfig() Config {
	return DefaultConfig().WithEnv()
}

// WithEnv returns c with DIARYCARD_RXNAV_* overrides applied. Invalid values
// are ignored.
func (c Config) WithEnv() Config {
	if v := os.Getenv("DIARYCARD_RXNAV_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("DIARYCARD_RXNAV_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TimeoutMs = n
		}
	}
	if v := os.Getenv("DIARYCARD_RXNAV_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("DIARYCARD_RXNAV_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("DIARYCARD_LOG_CALLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.LogCalls = b
		}
	}
	return c
}

// Sanitized returns c with out-of-range values replaced by their defaults.
func (c Config) Sanitized() Config {
	d := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = d.TimeoutMs
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = d.RatePerSecond
	}
	if c.Burst <= 0 {
		c.Burst = d.Burst
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = d.MaxCandidates
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}
