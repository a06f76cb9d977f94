package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000/api/v1", c.APIBaseURL)
	assert.Equal(t, "memoirvault.db", c.DatabasePath)
	assert.Equal(t, 2*time.Second, c.PollInterval)
	assert.Empty(t, c.WatchDir)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
}
