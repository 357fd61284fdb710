package decision

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/broker"
	"github.com/rustyeddy/quant/market"
	"github.com/rustyeddy/quant/pkg/id"
	"github.com/rustyeddy/quant/risk"
	"github.com/rustyeddy/quant/signal"
)

// Engine evaluates signals against risk limits. It is a pure function of its
// inputs except for the quote lookup on the buy path; there are no retries —
// a failed lookup degrades to Hold, because silently skipping a cycle is the
// safe default when trading.
type Engine struct {
	quotes market.QuoteProvider
	log    zerolog.Logger
	now    func() time.Time
}

// NewEngine builds an Engine around a quote source.
func NewEngine(quotes market.QuoteProvider, log zerolog.Logger) *Engine {
	return &Engine{
		quotes: quotes,
		log:    log,
		now:    time.Now,
	}
}

// Evaluate produces one bounded decision for the instrument.
//
// The strongest signal is the one with the greatest absolute score; ties go
// to the first signal in input order, so the reported rationale is
// deterministic for callers that keep their signal order stable.
func (e *Engine) Evaluate(
	ctx context.Context,
	instrument string,
	signals []signal.Alpha,
	position broker.Position,
	cfg risk.Config,
) TradeDecision {
	if len(signals) == 0 {
		return e.hold(instrument, signal.Alpha{}, "no signals available")
	}

	strongest := signals[0]
	for _, s := range signals[1:] {
		if math.Abs(s.Score) > math.Abs(strongest.Score) {
			strongest = s
		}
	}

	switch {
	case strongest.Score > cfg.BuyThreshold:
		return e.evaluateBuy(ctx, instrument, strongest, position, cfg)

	case strongest.Score < cfg.SellThreshold:
		if position.Shares <= 0 {
			return e.hold(instrument, strongest, "no position to sell")
		}
		// All-or-nothing exit: partial sells are not supported.
		return e.decide(instrument, Sell, position.Shares, strongest,
			fmt.Sprintf("sell signal %s score %.2f, exiting %d shares",
				strongest.Name, strongest.Score, position.Shares))

	default:
		return e.hold(instrument, strongest,
			fmt.Sprintf("signal not strong enough (strongest %s score %.2f)",
				strongest.Name, strongest.Score))
	}
}

func (e *Engine) evaluateBuy(
	ctx context.Context,
	instrument string,
	strongest signal.Alpha,
	position broker.Position,
	cfg risk.Config,
) TradeDecision {
	quote, err := e.quotes.LatestQuote(ctx, instrument)
	if err != nil || quote == nil || quote.Close <= 0 {
		if err != nil {
			e.log.Warn().Err(err).Str("instrument", instrument).Msg("quote lookup failed")
		}
		return e.hold(instrument, strongest, "cannot get quote")
	}

	maxByValue := int(math.Floor(cfg.MaxPositionValue / quote.Close))
	maxByLimit := cfg.MaxPositionShares - position.Shares

	shares := maxByValue
	if shares > maxByLimit {
		shares = maxByLimit
	}
	if shares < 0 {
		shares = 0
	}
	if shares <= 0 {
		return e.hold(instrument, strongest, "position limit reached")
	}

	return e.decide(instrument, Buy, shares, strongest,
		fmt.Sprintf("buy signal %s score %.2f, buying %d shares at %.2f",
			strongest.Name, strongest.Score, shares, quote.Close))
}

func (e *Engine) hold(instrument string, strongest signal.Alpha, rationale string) TradeDecision {
	return e.decide(instrument, Hold, 0, strongest, rationale)
}

func (e *Engine) decide(instrument string, action Action, quantity int, strongest signal.Alpha, rationale string) TradeDecision {
	return TradeDecision{
		ID:         id.New(),
		Instrument: instrument,
		Action:     action,
		Quantity:   quantity,
		Signal:     strongest,
		Rationale:  rationale,
		Time:       e.now().UTC(),
	}
}
