package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.False(t, cfg.Validation.StrictAttributes)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "02:00", cfg.Maintenance.DailyRunTime)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 8080
database:
  type: postgres
  postgres:
    host: db.internal
    port: 5432
    user: app
    database: line_items
    sslmode: require
validation:
  strict_attributes: true
rate_limit:
  enabled: true
  requests_per_minute: 30
maintenance:
  enabled: true
  daily_run_time: "03:30"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, "require", cfg.Database.Postgres.SSLMode)
	assert.True(t, cfg.Validation.StrictAttributes)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 3600, cfg.RateLimit.RequestsPerHour)
	assert.True(t, cfg.Maintenance.Enabled)
	assert.Equal(t, "03:30", cfg.Maintenance.DailyRunTime)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
