package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "dev-secret")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "parkspace_session", cfg.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "moderation.decided", cfg.RabbitMQ.Queue)
	assert.Equal(t, int64(5<<20), cfg.S3.MaxUploadSize)
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "dev-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("S3_BUCKET", "spaces")
	t.Setenv("S3_REGION", "ap-southeast-2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 1, cfg.RateLimit.Capacity)
	assert.True(t, cfg.S3.Enabled())
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"SESSION_SECRET": ""}},
		{name: "short production secret", env: map[string]string{"SESSION_SECRET": "short", "APP_ENV": "production"}},
		{name: "admin email without password", env: map[string]string{"SESSION_SECRET": "x", "ADMIN_EMAIL": "a@x.com", "ADMIN_PASSWORD": ""}},
		{name: "bad bcrypt cost", env: map[string]string{"SESSION_SECRET": "x", "BCRYPT_COST": "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
