package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Enabled:           true,
		BuyThreshold:      0.7,
		SellThreshold:     -0.7,
		MaxPositionShares: 100,
		MaxPositionValue:  10000,
		Universe:          []string{"AAPL"},
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero buy threshold", func(c *Config) { c.BuyThreshold = 0 }},
		{"buy threshold above one", func(c *Config) { c.BuyThreshold = 1.5 }},
		{"positive sell threshold", func(c *Config) { c.SellThreshold = 0.2 }},
		{"sell threshold below minus one", func(c *Config) { c.SellThreshold = -1.5 }},
		{"zero max shares", func(c *Config) { c.MaxPositionShares = 0 }},
		{"negative max value", func(c *Config) { c.MaxPositionValue = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigSanitize(t *testing.T) {
	t.Run("valid config passes through", func(t *testing.T) {
		cfg := validConfig()
		assert.Equal(t, cfg, cfg.Sanitize())
	})

	t.Run("invalid config falls back to disabled default", func(t *testing.T) {
		cfg := validConfig()
		cfg.BuyThreshold = -3
		got := cfg.Sanitize()
		assert.False(t, got.Enabled)
		assert.NoError(t, got.Validate())
	})
}
