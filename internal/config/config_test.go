package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL())
	assert.False(t, cfg.Postgres.Enabled)
	assert.Equal(t, 20, cfg.Upstreams.EventLimit)
	assert.Equal(t, 2.0, cfg.Upstreams.Polymarket.RPS)
	assert.Equal(t, 0.2, cfg.Signup.RPS)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
upstreams:
  event_limit: 50
  polymarket:
    base_url: https://gamma.example.com
    rps: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Upstreams.EventLimit)
	assert.Equal(t, "https://gamma.example.com", cfg.Upstreams.Polymarket.BaseURL)
	assert.Equal(t, 5.0, cfg.Upstreams.Polymarket.RPS)
	// Untouched sections keep their defaults.
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 0.2, cfg.Signup.RPS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("DATABASE_URL", "postgres://app@db.internal:5432/polytrigger")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled, "REDIS_ADDR implies the cache is enabled")
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Postgres.Enabled, "DATABASE_URL implies postgres is enabled")
	assert.Equal(t, "postgres://app@db.internal:5432/polytrigger", cfg.Postgres.DSN)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
