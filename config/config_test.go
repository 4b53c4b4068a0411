package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 500, cfg.Render.MaxWidth)
	assert.Equal(t, 500, cfg.Render.MaxHeight)
	assert.Equal(t, 40_000_000, cfg.Render.MaxSourcePixels)
	assert.Equal(t, int64(10<<20), cfg.App.MaxUploadBytes)
	assert.Equal(t, 30*time.Minute, cfg.Worker.SessionIdleTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.False(t, cfg.Kafka.Enabled)
}

func TestParseConfigOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")

	yaml := `
render:
  max_width: 800
redis:
  enabled: true
  host: cache
  cache_ttl: 2m
`
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Render.MaxWidth)
	assert.Equal(t, 500, cfg.Render.MaxHeight)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MEME_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("MEME_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("MEME_TEST_MISSING", "fallback"))
}
