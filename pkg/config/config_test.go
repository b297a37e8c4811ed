package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskdeck/pkg/config"

	"github.com/stretchr/testify/assert"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_UsesDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load("non-existent-config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_LoadsFromYAML(t *testing.T) {
	path := writeTempConfig(t, `
server:
  address: ":9000"
  read_timeout: 10s
  write_timeout: 15s
  shutdown_timeout: 5s

auth:
  jwt_secret: "test-secret"
  access_token_ttl: 30m
  refresh_token_ttl: 24h

redis:
  enabled: true
  address: "redis:6379"
  pool_size: 5

logging:
  level: "debug"
`)

	cfg, err := config.Load(path)
	assert.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_AppliesEnvOverrides(t *testing.T) {
	t.Setenv("TASKDECK_SERVER_ADDRESS", ":7777")
	t.Setenv("TASKDECK_JWT_SECRET", "env-secret")

	cfg, err := config.Load("non-existent-config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Auth.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Address = ""
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.RequestsPerSecond = 0
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.Uploads.Dir = ""
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.Slack.WebhookURL = "not-a-url"
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.Slack.WebhookURL = "https://hooks.slack.com/services/T000/B000/XXXX"
	assert.NoError(t, cfg.Validate())
}
