package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig 测试默认配置有效
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultMaxPayloadSize, cfg.MaxPayloadSize)
	assert.Equal(t, DefaultFrameTimeout, cfg.FrameTimeout)
	assert.Equal(t, DefaultReceivePollTimeout, cfg.ReceivePollTimeout)
	assert.Equal(t, DefaultIOWorkerErrorLimit, cfg.IOWorkerErrorLimit)
	assert.Equal(t, DefaultBaudRate, cfg.Serial.BaudRate)

	t.Log("✅ DefaultConfig 测试通过")
}

// TestConfig_Validate 测试配置校验
func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"ZeroMaxPayloadSize":     func(c *Config) { c.MaxPayloadSize = 0 },
		"NegativeFrameTimeout":   func(c *Config) { c.FrameTimeout = -time.Second },
		"ZeroReceivePollTimeout": func(c *Config) { c.ReceivePollTimeout = 0 },
		"ZeroIOWorkerErrorLimit": func(c *Config) { c.IOWorkerErrorLimit = 0 },
		"ZeroBaudRate":           func(c *Config) { c.Serial.BaudRate = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	t.Log("✅ Config.Validate 测试通过")
}
