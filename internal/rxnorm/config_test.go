package rxnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_StaysUnderPublicLimit(t *testing.T) {
	cfg := DefaultConfig()
	assert.Less(t, cfg.RatePerSecond, 20.0)
	assert.Equal(t, 0, cfg.MaxRetries)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DIARYCARD_RXNAV_ENDPOINT", "http://localhost:4000/REST")
	t.Setenv("DIARYCARD_RXNAV_TIMEOUT_MS", "2500")
	t.Setenv("DIARYCARD_RXNAV_RATE", "5")
	t.Setenv("DIARYCARD_LOG_CALLS", "true")

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:4000/REST", cfg.Endpoint)
	assert.Equal(t, 2500, cfg.TimeoutMs)
	assert.Equal(t, 5.0, cfg.RatePerSecond)
	assert.True(t, cfg.LogCalls)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("DIARYCARD_RXNAV_TIMEOUT_MS", "soon")
	t.Setenv("DIARYCARD_RXNAV_RATE", "-3")

	cfg := LoadConfig()

	assert.Equal(t, 10000, cfg.TimeoutMs)
	assert.Equal(t, 15.0, cfg.RatePerSecond)
}

func TestLoadConfig_UnparsableLogCallsKeepsValue(t *testing.T) {
	t.Setenv("DIARYCARD_LOG_CALLS", "maybe")

	cfg := Config{LogCalls: true}.WithEnv()

	assert.True(t, cfg.LogCalls)
}

func TestConfig_Sanitized(t *testing.T) {
	cfg := Config{
		Endpoint:      "http://rxnav.local/REST",
		TimeoutMs:     0,
		MaxRetries:    -1,
		RatePerSecond: 0,
		Burst:         -2,
		MaxCandidates: 0,
		Concurrency:   3,
	}.Sanitized()

	d := DefaultConfig()
	assert.Equal(t, "http://rxnav.local/REST", cfg.Endpoint)
	assert.Equal(t, d.TimeoutMs, cfg.TimeoutMs)
	assert.Equal(t, d.MaxRetries, cfg.MaxRetries)
	assert.Equal(t, d.RatePerSecond, cfg.RatePerSecond)
	assert.Equal(t, d.Burst, cfg.Burst)
	assert.Equal(t, d.MaxCandidates, cfg.MaxCandidates)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, d, Config{}.Sanitized())
}
