// Package broker defines the order-submission and position surfaces the
// engine consumes. Real brokers live in the surrounding application; this
// package only fixes the contract, plus a paper implementation for tests
// and dry runs.
package broker

import (
	"context"
	"errors"
	"time"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ErrRejected is returned when an order is refused outright (no fill).
var ErrRejected = errors.New("broker: order rejected")

// Fill confirms a submitted order. A nil fill (with or without an error)
// means the order did not happen and no trade record should be created.
type Fill struct {
	Instrument string
	Side       Side
	Quantity   int
	Price      float64
	Time       time.Time
}

// Position is a long-only holding in one instrument. The engine only reads
// positions; ownership stays with the trading collaborator.
type Position struct {
	Instrument string
	Shares     int
	AvgCost    float64
	Price      float64
}

// MarketValue returns the current dollar value of the holding.
func (p Position) MarketValue() float64 {
	return float64(p.Shares) * p.Price
}

// OrderSubmitter places orders with the external trading capability.
type OrderSubmitter interface {
	Submit(ctx context.Context, instrument string, side Side, quantity int) (*Fill, error)
}

// PositionReader looks up current holdings.
type PositionReader interface {
	GetPosition(ctx context.Context, instrument string) (Position, error)
}
