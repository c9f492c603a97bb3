package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "election_dates.json", cfg.Compliance.SnapshotPath)
	assert.Equal(t, "https://api.congress.gov/v3", cfg.Congress.BaseURL)
	assert.Equal(t, 15, cfg.Congress.TimeoutSecs)
	assert.Equal(t, "https://api.resend.com", cfg.Mailer.BaseURL)
	assert.Equal(t, "notifications@civicgive.org", cfg.Mailer.From)
	assert.Equal(t, 5, cfg.Notify.Concurrency)
	assert.Equal(t, 2, cfg.Notify.SendRetries)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CIVIC_STORE_DRIVER", "sqlite")
	t.Setenv("CIVIC_LOG_LEVEL", "debug")
	t.Setenv("CIVIC_NOTIFY_CONCURRENCY", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Notify.Concurrency)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "chatty", Format: "json"})
	require.Error(t, err)
}
