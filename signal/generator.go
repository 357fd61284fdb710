package signal

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/indicators"
	"github.com/rustyeddy/quant/market"
)

const (
	// MinBars is the minimum history needed to generate any signals. Fewer
	// bars yields an empty list — "no signals" means "insufficient data",
	// never "strong hold".
	MinBars = 14

	rsiPeriod        = 14
	crossoverPeriod  = 10
	crossoverMinBars = 10
)

// Option configures a Generator.
type Option func(*Generator)

// WithScorer attaches an external scoring capability; when present the
// generator emits an extra "model" signal per evaluation.
func WithScorer(s Scorer) Option {
	return func(g *Generator) { g.scorer = s }
}

// WithClock overrides the time source; tests use it for deterministic
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// Generator computes the alpha signal family for one instrument at a time.
// It is stateless between calls and safe for concurrent use.
type Generator struct {
	log    zerolog.Logger
	scorer Scorer
	now    func() time.Time
}

// NewGenerator builds a Generator with the given logger.
func NewGenerator(log zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate computes the signal family from oldest-first price history.
// Every score is clamped into [-1, +1]. Fewer than MinBars bars returns an
// empty slice and no error.
//
// Signals after the first carry millisecond timestamp offsets purely so a
// display can keep their relative order; the offsets carry no decision
// weight.
func (g *Generator) Generate(ctx context.Context, instrument string, bars []market.Bar) []Alpha {
	if len(bars) < MinBars {
		g.log.Debug().
			Str("instrument", instrument).
			Int("bars", len(bars)).
			Int("required", MinBars).
			Msg("insufficient history for signals")
		return nil
	}

	closes := market.Closes(bars)
	base := g.now().UTC()
	signals := make([]Alpha, 0, 4)

	stamp := func() time.Time {
		return base.Add(time.Duration(len(signals)) * time.Millisecond)
	}

	// momentum_20: normalized total return over the available window.
	first, last := closes[0], closes[len(closes)-1]
	momentum := 0.0
	if first != 0 {
		momentum = (last - first) / first
	}
	signals = append(signals, Alpha{
		Name:       "momentum_20",
		Instrument: instrument,
		Score:      Clamp(momentum),
		Time:       stamp(),
	})

	// rsi_14: maps RSI's [0,100] range onto [-1,+1] centered at neutral 50.
	// While the Wilder window is still warming up the signal is emitted at
	// neutral zero so the family size stays stable for consumers.
	rsiScore := 0.0
	rsi := indicators.RSI(closes, rsiPeriod)
	if lastRSI := rsi[len(rsi)-1]; !indicators.IsUndefined(lastRSI) {
		rsiScore = Clamp((lastRSI - 50) / 50)
	}
	signals = append(signals, Alpha{
		Name:       "rsi_14",
		Instrument: instrument,
		Score:      rsiScore,
		Time:       stamp(),
	})

	// ma_crossover: distance of the last close from its 10-bar SMA.
	if len(closes) >= crossoverMinBars {
		sma := indicators.SMA(closes, crossoverPeriod)
		if lastSMA := sma[len(sma)-1]; !indicators.IsUndefined(lastSMA) && lastSMA != 0 {
			signals = append(signals, Alpha{
				Name:       "ma_crossover",
				Instrument: instrument,
				Score:      Clamp((last - lastSMA) / lastSMA),
				Time:       stamp(),
			})
		}
	}

	if g.scorer != nil {
		if alpha, ok := g.modelSignal(ctx, instrument, signals, bars, stamp()); ok {
			signals = append(signals, alpha)
		}
	}

	return signals
}

// modelSignal asks the external scorer for one more opinion, feeding it the
// already-computed family plus the latest bar. A scorer failure degrades to
// "no extra signal" and a log line, never an error.
func (g *Generator) modelSignal(ctx context.Context, instrument string, family []Alpha, bars []market.Bar, at time.Time) (Alpha, bool) {
	last := bars[len(bars)-1]
	features := make([]Feature, 0, len(family)+2)
	for _, a := range family {
		features = append(features, Feature{Name: a.Name, Value: a.Score})
	}
	features = append(features,
		Feature{Name: "last_close", Value: last.Close},
		Feature{Name: "last_volume", Value: float64(last.Volume)},
	)

	score, err := g.scorer.Score(ctx, features)
	if err != nil {
		g.log.Warn().Err(err).Str("instrument", instrument).Msg("model scorer unavailable")
		return Alpha{}, false
	}

	return Alpha{
		Name:       "model",
		Instrument: instrument,
		Score:      Clamp(score),
		Time:       at,
	}, true
}
