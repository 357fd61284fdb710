// Package risk holds the guard-rails the decision engine and scheduler
// operate under.
package risk

import "fmt"

// Config is the risk snapshot one evaluation cycle runs against. It is
// treated as immutable for the duration of a cycle and reloaded between
// cycles.
type Config struct {
	// Enabled gates all automatic trading. A disabled config keeps the
	// scheduler idle without tearing it down.
	Enabled bool `yaml:"enabled" envconfig:"RISK_ENABLED"`

	// BuyThreshold is the signal score above which a buy is considered,
	// in (0, 1].
	BuyThreshold float64 `yaml:"buy_threshold"`

	// SellThreshold is the signal score below which a sell is considered,
	// in [-1, 0).
	SellThreshold float64 `yaml:"sell_threshold"`

	// MaxPositionShares caps the shares held per instrument.
	MaxPositionShares int `yaml:"max_position_shares"`

	// MaxPositionValue caps the dollar exposure of a single buy.
	MaxPositionValue float64 `yaml:"max_position_value"`

	// Universe lists the instruments evaluated each cycle, in order.
	Universe []string `yaml:"universe"`
}

// Default returns the safe fallback configuration: trading disabled,
// conservative thresholds and limits.
func Default() Config {
	return Config{
		Enabled:           false,
		BuyThreshold:      0.7,
		SellThreshold:     -0.7,
		MaxPositionShares: 100,
		MaxPositionValue:  10000,
	}
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if c.BuyThreshold <= 0 || c.BuyThreshold > 1 {
		return fmt.Errorf("risk: buy_threshold must be in (0,1], got %v", c.BuyThreshold)
	}
	if c.SellThreshold < -1 || c.SellThreshold >= 0 {
		return fmt.Errorf("risk: sell_threshold must be in [-1,0), got %v", c.SellThreshold)
	}
	if c.MaxPositionShares <= 0 {
		return fmt.Errorf("risk: max_position_shares must be positive, got %d", c.MaxPositionShares)
	}
	if c.MaxPositionValue <= 0 {
		return fmt.Errorf("risk: max_position_value must be positive, got %v", c.MaxPositionValue)
	}
	return nil
}

// Sanitize returns the config unchanged when valid, otherwise the disabled
// default. A malformed risk config must never crash the engine or, worse,
// trade with garbage limits.
func (c Config) Sanitize() Config {
	if err := c.Validate(); err != nil {
		return Default()
	}
	return c
}
