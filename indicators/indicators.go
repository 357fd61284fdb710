// Package indicators provides technical analysis indicators for trading.
//
// Two styles are offered: batch series functions that map a whole price
// series onto an aligned output series, and streaming indicators that consume
// one closed bar at a time. Both are deterministic and safe to use in live,
// replay, and backtest contexts.
//
// Batch functions follow one alignment rule: the output always has the same
// length as the input, and positions where the rolling window is not yet full
// hold the Undefined sentinel (NaN) rather than zero. No input — including
// empty input — causes an error or a panic.
package indicators

import (
	"math"

	"github.com/rustyeddy/quant/market"
)

// Undefined is the sentinel emitted for warm-up positions in a series.
func Undefined() float64 { return math.NaN() }

// IsUndefined reports whether v is the warm-up sentinel.
func IsUndefined(v float64) bool { return math.IsNaN(v) }

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// Indicator computes a single streaming value from bars.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* bar and updates internal state.
	Update(b market.Bar)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. If !Ready(), it returns 0 —
	// callers should always check Ready().
	Value() float64
}
