package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default configuration", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "dev", cfg.AppEnv)
		assert.Equal(t, uint16(8000), cfg.HttpServerPort)
		assert.Equal(t, int64(64<<20), cfg.WsReadLimit)
		assert.Equal(t, 10*time.Second, cfg.WsWriteWait)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
		assert.False(t, cfg.RedisRelayEnabled)
		assert.Equal(t, "localhost", cfg.RedisHost)
		assert.Equal(t, uint16(6379), cfg.RedisPort)
		assert.Equal(t, "birdroom", cfg.RedisChannelPrefix)
	})

	t.Run("From environment variables", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("HTTP_SERVER_PORT", "9090")
		t.Setenv("WS_WRITE_WAIT", "3s")
		t.Setenv("REDIS_RELAY_ENABLED", "true")
		t.Setenv("REDIS_HOST", "redis.internal")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "prod", cfg.AppEnv)
		assert.Equal(t, uint16(9090), cfg.HttpServerPort)
		assert.Equal(t, 3*time.Second, cfg.WsWriteWait)
		assert.True(t, cfg.RedisRelayEnabled)
		assert.Equal(t, "redis.internal", cfg.RedisHost)
	})

	t.Run("Validation failures", func(t *testing.T) {
		cases := map[string]string{
			"APP_ENV":          "staging",
			"HTTP_SERVER_PORT": "80",
			"WS_READ_LIMIT":    "1024",
		}
		for key, value := range cases {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				_, err := LoadConfig()
				assert.Error(t, err)
			})
		}
	})

	t.Run("Read limit floor fits the largest valid message", func(t *testing.T) {
		t.Setenv("WS_READ_LIMIT", "2048")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, int64(2048), cfg.WsReadLimit)
	})

	t.Run("Unparseable value", func(t *testing.T) {
		t.Setenv("HTTP_SERVER_PORT", "not-a-port")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
