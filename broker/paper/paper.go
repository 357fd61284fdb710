// Package paper implements an in-memory broker that fills every order at the
// latest quote. It backs dry runs and tests; no real money moves.
package paper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/broker"
	"github.com/rustyeddy/quant/market"
)

// Broker is a paper-trading account: cash plus long-only positions, filled
// at the latest quote from the attached provider. Safe for concurrent use.
type Broker struct {
	mu        sync.Mutex
	cash      float64
	positions map[string]broker.Position

	quotes market.QuoteProvider
	log    zerolog.Logger
	now    func() time.Time
}

// New creates a paper broker with the given starting cash.
func New(startingCash float64, quotes market.QuoteProvider, log zerolog.Logger) *Broker {
	return &Broker{
		cash:      startingCash,
		positions: make(map[string]broker.Position),
		quotes:    quotes,
		log:       log,
		now:       time.Now,
	}
}

// Submit fills the order at the latest quote close. Buys are rejected when
// they exceed available cash; sells are rejected when they exceed the held
// quantity (long-only, no shorts).
func (b *Broker) Submit(ctx context.Context, instrument string, side broker.Side, quantity int) (*broker.Fill, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("paper: non-positive quantity %d: %w", quantity, broker.ErrRejected)
	}

	quote, err := b.quotes.LatestQuote(ctx, instrument)
	if err != nil {
		return nil, fmt.Errorf("paper: quote %s: %w", instrument, err)
	}
	if quote == nil || quote.Close <= 0 {
		return nil, fmt.Errorf("paper: no usable quote for %s: %w", instrument, market.ErrNoQuote)
	}
	price := quote.Close

	b.mu.Lock()
	defer b.mu.Unlock()

	pos := b.positions[instrument]
	pos.Instrument = instrument

	switch side {
	case broker.SideBuy:
		cost := price * float64(quantity)
		if cost > b.cash {
			return nil, fmt.Errorf("paper: insufficient cash %.2f for %.2f: %w", b.cash, cost, broker.ErrRejected)
		}
		total := pos.AvgCost*float64(pos.Shares) + cost
		pos.Shares += quantity
		pos.AvgCost = total / float64(pos.Shares)
		b.cash -= cost

	case broker.SideSell:
		if quantity > pos.Shares {
			return nil, fmt.Errorf("paper: sell %d exceeds held %d: %w", quantity, pos.Shares, broker.ErrRejected)
		}
		pos.Shares -= quantity
		if pos.Shares == 0 {
			pos.AvgCost = 0
		}
		b.cash += price * float64(quantity)

	default:
		return nil, fmt.Errorf("paper: unknown side %q: %w", side, broker.ErrRejected)
	}

	pos.Price = price
	b.positions[instrument] = pos

	fill := &broker.Fill{
		Instrument: instrument,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		Time:       b.now().UTC(),
	}
	b.log.Info().
		Str("instrument", instrument).
		Str("side", string(side)).
		Int("qty", quantity).
		Float64("price", price).
		Float64("cash", b.cash).
		Msg("paper fill")
	return fill, nil
}

// GetPosition returns the current holding, marked to the latest quote when
// one is available.
func (b *Broker) GetPosition(ctx context.Context, instrument string) (broker.Position, error) {
	b.mu.Lock()
	pos, ok := b.positions[instrument]
	b.mu.Unlock()
	if !ok {
		return broker.Position{Instrument: instrument}, nil
	}

	if quote, err := b.quotes.LatestQuote(ctx, instrument); err == nil && quote != nil {
		pos.Price = quote.Close
	}
	return pos, nil
}

// Cash returns the uninvested balance.
func (b *Broker) Cash() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cash
}
