package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tracer/internal/config"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "tracer.yaml", `
log_level: debug
store: redis
redis:
  addr: cache:6379
  db: 2
  ttl: 1h
http:
  addr: ":9000"
metrics: true
pause_delay: 250ms
seed: 0.5
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis", cfg.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "tracer:session:", cfg.Redis.Prefix, "unset fields keep defaults")
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, 250*time.Millisecond, cfg.PauseDelay)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, 0.5, *cfg.Seed)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "tracer.json", `{"store": "memory", "http": {"addr": ":1234"}}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, ":1234", cfg.HTTP.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := write(t, "tracer.yaml", "store: file\n")
	t.Setenv("TRACER_STORE", "memory")
	t.Setenv("TRACER_SEED", "0.25")
	t.Setenv("TRACER_ENCRYPTION_KEY", "AAAA")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, 0.25, *cfg.Seed)
	assert.Equal(t, "AAAA", cfg.Encryption.Key)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown store":      "store: sqlite\n",
		"bad level":          "log_level: loud\n",
		"seed out of range":  "seed: 2\n",
		"redis without addr": "store: redis\nredis:\n  addr: \"\"\n",
		"malformed":          "store: [\n",
		"key not base64":     "encryption:\n  key: \"not base64!\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(write(t, "tracer.yaml", content))
			assert.Error(t, err)
		})
	}
}
