package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Tour.Restarts)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg := Default()
	data := []byte(`
server:
  port: "9090"
  allowOrigins: ["http://localhost:3000"]
tour:
  restarts: 25
log:
  format: text
`)
	require.NoError(t, Parse(data, &cfg))
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 25, cfg.Tour.Restarts)
	assert.Equal(t, "text", cfg.Log.Format)
	// untouched keys keep defaults
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.True(t, cfg.Database.Migrate)
}

func TestParseRejectsBadYAML(t *testing.T) {
	cfg := Default()
	assert.Error(t, Parse([]byte("server: [unclosed"), &cfg))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":          "7000",
		"ALLOW_ORIGINS": "http://a.test, http://b.test",
		"RATE_RPS":      "2.5",
		"RATE_BURST":    "4",
		"DATABASE_URL":  "postgres://u:p@localhost/db",
		"DB_MIGRATE":    "false",
		"REDIS_URL":     "redis://localhost:6379/0",
		"TOUR_RESTARTS": "3",
		"LOG_LEVEL":     "debug",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 2.5, cfg.Server.RateRPS)
	assert.Equal(t, 4, cfg.Server.RateBurst)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Database.URL)
	assert.False(t, cfg.Database.Migrate)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 3, cfg.Tour.Restarts)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestApplyEnvBadNumbers(t *testing.T) {
	for _, key := range []string{"RATE_RPS", "RATE_BURST", "TOUR_RESTARTS", "WEBHOOK_MAX_ATTEMPTS", "DB_MIGRATE"} {
		cfg := Default()
		err := cfg.applyEnv(func(k string) string {
			if k == key {
				return "many"
			}
			return ""
		})
		assert.ErrorContains(t, err, key)
	}
}

func TestApplyEnvDBMigrate(t *testing.T) {
	for v, want := range map[string]bool{"0": false, "false": false, "FALSE": false, "1": true, "true": true} {
		cfg := Default()
		cfg.Database.Migrate = !want
		require.NoError(t, cfg.applyEnv(func(k string) string {
			if k == "DB_MIGRATE" {
				return v
			}
			return ""
		}), v)
		assert.Equal(t, want, cfg.Database.Migrate, "DB_MIGRATE=%s", v)
	}
	cfg := Default()
	assert.ErrorContains(t, cfg.applyEnv(func(k string) string {
		if k == "DB_MIGRATE" {
			return "no"
		}
		return ""
	}), "DB_MIGRATE")
}

func TestApplyEnvWebhooks(t *testing.T) {
	env := map[string]string{
		"WEBHOOK_URLS":         "http://hooks.test/a,http://hooks.test/b",
		"WEBHOOK_SECRET":       "s3cret",
		"WEBHOOK_MAX_ATTEMPTS": "3",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, []string{"http://hooks.test/a", "http://hooks.test/b"}, cfg.Webhooks.URLs)
	assert.Equal(t, "s3cret", cfg.Webhooks.Secret)
	assert.Equal(t, 3, cfg.Webhooks.MaxAttempts)

	cfg.Webhooks.MaxAttempts = 0
	assert.ErrorContains(t, cfg.Validate(), "webhooks.maxAttempts")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Tour.Restarts = 0
	cfg.Server.RateRPS = -1
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "tour.restarts")
	assert.ErrorContains(t, err, "rateRps")
	assert.ErrorContains(t, err, "log.format")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "citytour.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tour:\n  restarts: 4\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("TOUR_RESTARTS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Tour.Restarts)
}

func TestSlogLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
