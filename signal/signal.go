// Package signal turns raw price history into named, bounded alpha scores.
package signal

import (
	"math"
	"time"
)

// Class buckets an alpha score into the trade direction it argues for.
type Class int

const (
	Hold Class = iota
	Buy
	Sell
)

func (c Class) String() string {
	switch c {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// Class thresholds: only scores beyond half the range count as directional.
const (
	buyClassThreshold  = 0.5
	sellClassThreshold = -0.5
)

// Alpha is a bounded numeric opinion about future price direction for one
// instrument, tagged with the generating strategy name. Score is always in
// [-1, +1]; downstream consumers rely on that bound. Alphas are created
// fresh each evaluation and never mutated.
type Alpha struct {
	Name       string
	Instrument string
	Score      float64
	Time       time.Time
}

// Class derives the direction bucket from the score.
func (a Alpha) Class() Class {
	switch {
	case a.Score > buyClassThreshold:
		return Buy
	case a.Score < sellClassThreshold:
		return Sell
	default:
		return Hold
	}
}

// Clamp bounds v into [-1, +1]. NaN collapses to 0 so a degenerate input can
// never leak an unbounded or undefined score downstream.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
