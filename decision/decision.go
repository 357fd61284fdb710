// Package decision turns the signal family for one instrument into a single
// bounded trade decision under the configured risk limits.
package decision

import (
	"time"

	"github.com/rustyeddy/quant/signal"
)

// Action is what the engine decided to do.
type Action int

const (
	Hold Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// TradeDecision is the engine's output for one (instrument, cycle) pair.
// It is created once and never mutated. Action is Hold exactly when
// Quantity is zero.
type TradeDecision struct {
	ID         string
	Instrument string
	Action     Action
	Quantity   int

	// Signal is the strongest signal observed; it is the rationale's
	// subject even for hold decisions.
	Signal    signal.Alpha
	Rationale string
	Time      time.Time
}
