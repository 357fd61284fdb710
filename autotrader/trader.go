// Package autotrader runs signal evaluation on a fixed cadence across the
// configured instrument universe and submits the resulting orders.
package autotrader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/broker"
	"github.com/rustyeddy/quant/decision"
	"github.com/rustyeddy/quant/journal"
	"github.com/rustyeddy/quant/market"
	"github.com/rustyeddy/quant/metrics"
	"github.com/rustyeddy/quant/risk"
	"github.com/rustyeddy/quant/signal"
)

const (
	// DefaultInterval is the evaluation cadence.
	DefaultInterval = 5 * time.Minute

	// DefaultLookback is how many bars of history each evaluation requests.
	DefaultLookback = 20

	// HistoryCap bounds the in-memory decision log; the oldest entry is
	// evicted first.
	HistoryCap = 20
)

// ConfigLoader supplies a fresh risk snapshot. It is called on Start and on
// every ReloadConfig; the result is sanitized, so a malformed config
// degrades to disabled rather than crashing the trader.
type ConfigLoader func() risk.Config

// Deps are the collaborators the trader is wired with. Everything is
// injected; the trader owns no global state.
type Deps struct {
	History    market.HistoryProvider
	Generator  *signal.Generator
	Engine     *decision.Engine
	Positions  broker.PositionReader
	Orders     broker.OrderSubmitter
	Journal    journal.Journal // optional
	LoadConfig ConfigLoader
	Log        zerolog.Logger
}

// Option configures optional trader behavior.
type Option func(*Trader)

// WithInterval overrides the evaluation cadence.
func WithInterval(d time.Duration) Option {
	return func(t *Trader) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithLookback overrides how many bars each evaluation requests.
func WithLookback(n int) Option {
	return func(t *Trader) {
		if n > 0 {
			t.lookback = n
		}
	}
}

// WithObserver registers a callback invoked with every decision, after it is
// appended to the history. The callback runs on the scheduler goroutine and
// must not block.
func WithObserver(fn func(decision.TradeDecision)) Option {
	return func(t *Trader) { t.observer = fn }
}

// Trader is the scheduling state machine. Lifecycle-wise it is either
// Stopped or Running; a Running trader with a disabled risk config stays
// idle (no timer armed) until a reload re-enables it.
type Trader struct {
	deps     Deps
	interval time.Duration
	lookback int
	observer func(decision.TradeDecision)

	mu         sync.Mutex
	running    bool
	cfg        risk.Config
	loopCancel context.CancelFunc
	loopDone   chan struct{}
	decisions  []decision.TradeDecision
}

// New wires a trader. Call Start to begin evaluating.
func New(deps Deps, opts ...Option) *Trader {
	t := &Trader{
		deps:     deps,
		interval: DefaultInterval,
		lookback: DefaultLookback,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start loads the risk config and, when trading is enabled, performs one
// immediate evaluation pass and arms the recurring timer. Re-entrant calls
// are no-ops.
func (t *Trader) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.cfg = t.deps.LoadConfig().Sanitize()

	if !t.cfg.Enabled {
		t.deps.Log.Info().Msg("auto trading disabled; scheduler idle")
		return
	}
	t.armLocked()
}

// Stop cancels the recurring timer and waits for any in-flight pass to
// finish. Idempotent.
func (t *Trader) Stop() {
	t.mu.Lock()
	cancel, done := t.loopCancel, t.loopDone
	t.loopCancel, t.loopDone = nil, nil
	t.running = false
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// ReloadConfig re-reads the risk config. Flipping disabled->enabled arms the
// evaluation loop; enabled->disabled disarms it. This is the only transition
// driven by configuration change rather than the timer.
func (t *Trader) ReloadConfig() {
	t.mu.Lock()
	t.cfg = t.deps.LoadConfig().Sanitize()

	switch {
	case t.cfg.Enabled && t.loopCancel == nil:
		t.running = true
		t.deps.Log.Info().Msg("auto trading enabled by config reload")
		t.armLocked()
		t.mu.Unlock()

	case !t.cfg.Enabled && t.loopCancel != nil:
		cancel, done := t.loopCancel, t.loopDone
		t.loopCancel, t.loopDone = nil, nil
		t.mu.Unlock()
		t.deps.Log.Info().Msg("auto trading disabled by config reload")
		cancel()
		<-done

	default:
		t.mu.Unlock()
	}
}

// Running reports the lifecycle state.
func (t *Trader) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Decisions returns a snapshot copy of the bounded decision history, oldest
// first. Never a live reference.
func (t *Trader) Decisions() []decision.TradeDecision {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]decision.TradeDecision, len(t.decisions))
	copy(out, t.decisions)
	return out
}

// armLocked starts the evaluation goroutine. Caller holds t.mu.
func (t *Trader) armLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.loopCancel = cancel
	t.loopDone = done
	go t.loop(ctx, done)
}

func (t *Trader) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	t.runPass(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runPass(ctx)
		}
	}
}

// runPass evaluates every instrument in the universe sequentially. One
// instrument's failure is logged and counted but never aborts the rest of
// the pass.
func (t *Trader) runPass(ctx context.Context) {
	t.mu.Lock()
	cfg := t.cfg
	t.mu.Unlock()

	for _, instrument := range cfg.Universe {
		if ctx.Err() != nil {
			return
		}
		if err := t.evaluateInstrument(ctx, instrument, cfg); err != nil {
			metrics.EvalFailures.WithLabelValues(instrument).Inc()
			t.deps.Log.Error().Err(err).Str("instrument", instrument).Msg("evaluation failed")
		}
	}
}

func (t *Trader) evaluateInstrument(ctx context.Context, instrument string, cfg risk.Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluate %s: panic: %v", instrument, r)
		}
	}()

	bars, err := t.deps.History.History(ctx, instrument, t.lookback)
	if err != nil {
		return fmt.Errorf("history %s: %w", instrument, err)
	}

	signals := t.deps.Generator.Generate(ctx, instrument, bars)

	position, err := t.deps.Positions.GetPosition(ctx, instrument)
	if err != nil {
		return fmt.Errorf("position %s: %w", instrument, err)
	}

	d := t.deps.Engine.Evaluate(ctx, instrument, signals, position, cfg)
	metrics.DecisionsTotal.WithLabelValues(instrument, d.Action.String()).Inc()
	t.record(d)

	t.deps.Log.Debug().
		Str("instrument", instrument).
		Str("action", d.Action.String()).
		Int("qty", d.Quantity).
		Str("rationale", d.Rationale).
		Msg("decision")

	if d.Action == decision.Hold {
		return nil
	}

	side := broker.SideBuy
	if d.Action == decision.Sell {
		side = broker.SideSell
	}

	fill, err := t.deps.Orders.Submit(ctx, instrument, side, d.Quantity)
	if err != nil || fill == nil {
		// The decision stays in history for audit; no trade record exists.
		metrics.OrderFailures.WithLabelValues(instrument).Inc()
		t.deps.Log.Warn().Err(err).
			Str("instrument", instrument).
			Str("side", string(side)).
			Int("qty", d.Quantity).
			Msg("order not confirmed")
		return nil
	}

	metrics.OrdersTotal.WithLabelValues(instrument, string(side)).Inc()
	t.deps.Log.Info().
		Str("instrument", instrument).
		Str("side", string(side)).
		Int("qty", fill.Quantity).
		Float64("price", fill.Price).
		Msg("order filled")
	return nil
}

// record appends to the bounded history and fans the decision out to the
// journal and observer.
func (t *Trader) record(d decision.TradeDecision) {
	t.mu.Lock()
	t.decisions = append(t.decisions, d)
	if len(t.decisions) > HistoryCap {
		t.decisions = t.decisions[len(t.decisions)-HistoryCap:]
	}
	t.mu.Unlock()

	if t.deps.Journal != nil {
		if err := t.deps.Journal.RecordDecision(journal.FromDecision(d)); err != nil {
			t.deps.Log.Warn().Err(err).Msg("journal write failed")
		}
	}
	if t.observer != nil {
		t.observer(d)
	}
}
