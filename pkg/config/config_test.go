package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "yahoo", c.Provider.Type)
	assert.Equal(t, 30*time.Second, c.Provider.Timeout)
	assert.Equal(t, "AAPL", c.Defaults.Ticker)
	assert.Equal(t, "2020-01-01", c.Defaults.Start)
	assert.Equal(t, "memory", c.Session.Backend)
	assert.True(t, c.RateLimit.Enabled)
	assert.False(t, c.Events.Enabled)
	require.NoError(t, c.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
provider:
  type: financego
  timeout: 5s
rate_limit:
  enabled: false
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "financego", c.Provider.Type)
	assert.Equal(t, 5*time.Second, c.Provider.Timeout)
	assert.False(t, c.RateLimit.Enabled)
	// untouched sections keep their defaults
	assert.Equal(t, "stocktrend_sid", c.Session.CookieName)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, "provider:\n  type: bloomberg\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider.type")
}

func TestValidateEventsNeedBrokers(t *testing.T) {
	c := Default()
	c.Events.Enabled = true
	assert.Error(t, c.Validate())
	c.Events.Brokers = []string{"localhost:9092"}
	assert.NoError(t, c.Validate())
}

func TestLoadWithEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv("STOCKTREND_PORT", "7070")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7070, c.Server.Port)
	assert.True(t, c.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Events.Brokers)
}
