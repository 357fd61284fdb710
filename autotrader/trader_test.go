package autotrader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quant/broker"
	"github.com/rustyeddy/quant/decision"
	"github.com/rustyeddy/quant/feed"
	"github.com/rustyeddy/quant/market"
	"github.com/rustyeddy/quant/risk"
	"github.com/rustyeddy/quant/signal"
)

// flakyHistory wraps a provider and fails for selected instruments.
type flakyHistory struct {
	inner  market.HistoryProvider
	failOn map[string]bool
}

func (h flakyHistory) History(ctx context.Context, instrument string, lookback int) ([]market.Bar, error) {
	if h.failOn[instrument] {
		return nil, errors.New("history source down")
	}
	return h.inner.History(ctx, instrument, lookback)
}

// stubPositions returns flat positions and can panic on demand.
type stubPositions struct {
	panicOn string
}

func (p stubPositions) GetPosition(_ context.Context, instrument string) (broker.Position, error) {
	if instrument == p.panicOn {
		panic("position book corrupted")
	}
	return broker.Position{Instrument: instrument}, nil
}

// stubOrders records submissions and can be told to fail.
type stubOrders struct {
	mu    sync.Mutex
	fills []broker.Fill
	fail  bool
}

func (o *stubOrders) Submit(_ context.Context, instrument string, side broker.Side, quantity int) (*broker.Fill, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return nil, errors.New("broker unreachable")
	}
	fill := broker.Fill{Instrument: instrument, Side: side, Quantity: quantity, Price: 100, Time: time.Now()}
	o.fills = append(o.fills, fill)
	return &fill, nil
}

func (o *stubOrders) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.fills)
}

// configSource is a reloadable config store for tests.
type configSource struct {
	mu  sync.Mutex
	cfg risk.Config
}

func (c *configSource) set(cfg risk.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
}

func (c *configSource) load() risk.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func enabledConfig(universe ...string) risk.Config {
	return risk.Config{
		Enabled:           true,
		BuyThreshold:      0.7,
		SellThreshold:     -0.7,
		MaxPositionShares: 100,
		MaxPositionValue:  10000,
		Universe:          universe,
	}
}

// risingFeed seeds a static feed whose momentum signal clears any buy
// threshold for every named instrument.
func risingFeed(instruments ...string) *feed.Static {
	s := feed.NewStatic()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, instrument := range instruments {
		bars := make([]market.Bar, 20)
		for i := range bars {
			c := 50 + float64(i)*10 // 50 -> 240, momentum clamps to +1
			bars[i] = market.Bar{
				Instrument: instrument,
				Time:       base.Add(time.Duration(i) * 5 * time.Minute),
				Open:       c, High: c, Low: c, Close: c,
				Volume: 100,
			}
		}
		s.SetBars(instrument, bars)
	}
	return s
}

type traderFixture struct {
	trader *Trader
	orders *stubOrders
	source *configSource
}

func newFixture(t *testing.T, cfg risk.Config, history market.HistoryProvider, opts ...Option) *traderFixture {
	t.Helper()
	log := zerolog.Nop()
	orders := &stubOrders{}
	source := &configSource{cfg: cfg}

	quotes, ok := history.(market.QuoteProvider)
	if !ok {
		quotes = feed.NewStatic()
	}

	deps := Deps{
		History:    history,
		Generator:  signal.NewGenerator(log),
		Engine:     decision.NewEngine(quotes, log),
		Positions:  stubPositions{},
		Orders:     orders,
		LoadConfig: source.load,
		Log:        log,
	}
	opts = append([]Option{WithInterval(time.Hour)}, opts...)
	tr := New(deps, opts...)
	t.Cleanup(tr.Stop)
	return &traderFixture{trader: tr, orders: orders, source: source}
}

func waitForDecisions(t *testing.T, tr *Trader, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(tr.Decisions()) >= n
	}, 3*time.Second, 5*time.Millisecond)
}

func TestStartRunsImmediatePass(t *testing.T) {
	fx := newFixture(t, enabledConfig("AAPL"), risingFeed("AAPL"))
	fx.trader.Start()
	assert.True(t, fx.trader.Running())

	waitForDecisions(t, fx.trader, 1)
	decisions := fx.trader.Decisions()
	require.Len(t, decisions, 1)
	assert.Equal(t, decision.Buy, decisions[0].Action)
	assert.Equal(t, 41, decisions[0].Quantity) // floor(10000/240)

	require.Eventually(t, func() bool { return fx.orders.count() == 1 }, 3*time.Second, 5*time.Millisecond)
	assert.Equal(t, broker.SideBuy, fx.orders.fills[0].Side)
}

func TestStartIsReentrant(t *testing.T) {
	fx := newFixture(t, enabledConfig("AAPL"), risingFeed("AAPL"))
	fx.trader.Start()
	fx.trader.Start()
	fx.trader.Start()

	waitForDecisions(t, fx.trader, 1)
	// Give any extra pass a chance to run; only one may exist.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, fx.trader.Decisions(), 1)
}

func TestDisabledConfigNeverEvaluates(t *testing.T) {
	cfg := enabledConfig("AAPL")
	cfg.Enabled = false
	fx := newFixture(t, cfg, risingFeed("AAPL"))
	fx.trader.Start()

	assert.True(t, fx.trader.Running()) // Running for lifecycle purposes
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fx.trader.Decisions())
	assert.Zero(t, fx.orders.count())
}

func TestInvalidConfigDegradesToDisabled(t *testing.T) {
	cfg := enabledConfig("AAPL")
	cfg.BuyThreshold = 17 // malformed: loader substitutes the safe default
	fx := newFixture(t, cfg, risingFeed("AAPL"))
	fx.trader.Start()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fx.trader.Decisions())
}

func TestStopThenStartResumes(t *testing.T) {
	fx := newFixture(t, enabledConfig("AAPL"), risingFeed("AAPL"))
	fx.trader.Start()
	waitForDecisions(t, fx.trader, 1)

	fx.trader.Stop()
	fx.trader.Stop() // idempotent
	assert.False(t, fx.trader.Running())

	fx.trader.Start()
	waitForDecisions(t, fx.trader, 2) // fresh immediate pass
	assert.True(t, fx.trader.Running())
}

func TestReloadConfigFlips(t *testing.T) {
	cfg := enabledConfig("AAPL")
	cfg.Enabled = false
	fx := newFixture(t, cfg, risingFeed("AAPL"), WithInterval(10*time.Millisecond))
	fx.trader.Start()
	time.Sleep(30 * time.Millisecond)
	require.Empty(t, fx.trader.Decisions())

	// disabled -> enabled arms the loop
	fx.source.set(enabledConfig("AAPL"))
	fx.trader.ReloadConfig()
	waitForDecisions(t, fx.trader, 1)

	// enabled -> disabled disarms it
	disabled := enabledConfig("AAPL")
	disabled.Enabled = false
	fx.source.set(disabled)
	fx.trader.ReloadConfig()

	n := len(fx.trader.Decisions())
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, fx.trader.Decisions(), n)
}

func TestPerInstrumentFailureIsolation(t *testing.T) {
	history := flakyHistory{
		inner:  risingFeed("OK1", "OK2"),
		failOn: map[string]bool{"BAD": true},
	}
	fx := newFixture(t, enabledConfig("OK1", "BAD", "OK2"), history)
	fx.trader.Start()

	waitForDecisions(t, fx.trader, 2)
	decisions := fx.trader.Decisions()
	instruments := []string{decisions[0].Instrument, decisions[1].Instrument}
	assert.Equal(t, []string{"OK1", "OK2"}, instruments)
}

func TestPanicDuringEvaluationIsContained(t *testing.T) {
	fx := newFixture(t, enabledConfig("PANIC", "AAPL"), risingFeed("PANIC", "AAPL"))
	fx.trader.deps.Positions = stubPositions{panicOn: "PANIC"}
	fx.trader.Start()

	waitForDecisions(t, fx.trader, 1)
	decisions := fx.trader.Decisions()
	require.Len(t, decisions, 1)
	assert.Equal(t, "AAPL", decisions[0].Instrument)
}

func TestOrderFailureKeepsDecisionForAudit(t *testing.T) {
	fx := newFixture(t, enabledConfig("AAPL"), risingFeed("AAPL"))
	fx.orders.fail = true
	fx.trader.Start()

	waitForDecisions(t, fx.trader, 1)
	decisions := fx.trader.Decisions()
	require.Len(t, decisions, 1)
	assert.Equal(t, decision.Buy, decisions[0].Action)
	assert.Zero(t, fx.orders.count()) // no trade record
}

func TestDecisionHistoryIsCapped(t *testing.T) {
	universe := make([]string, HistoryCap+5)
	for i := range universe {
		universe[i] = fmt.Sprintf("I%02d", i)
	}
	fx := newFixture(t, enabledConfig(universe...), risingFeed(universe...))
	fx.trader.Start()

	waitForDecisions(t, fx.trader, HistoryCap)
	require.Eventually(t, func() bool {
		d := fx.trader.Decisions()
		return len(d) == HistoryCap && d[len(d)-1].Instrument == universe[len(universe)-1]
	}, 3*time.Second, 5*time.Millisecond)

	decisions := fx.trader.Decisions()
	assert.Len(t, decisions, HistoryCap)
	// Oldest five evicted, FIFO.
	assert.Equal(t, "I05", decisions[0].Instrument)
}

func TestDecisionsReturnsSnapshot(t *testing.T) {
	fx := newFixture(t, enabledConfig("AAPL"), risingFeed("AAPL"))
	fx.trader.Start()
	waitForDecisions(t, fx.trader, 1)

	snap := fx.trader.Decisions()
	snap[0].Instrument = "MUTATED"
	assert.Equal(t, "AAPL", fx.trader.Decisions()[0].Instrument)
}

func TestObserverSeesEveryDecision(t *testing.T) {
	var mu sync.Mutex
	var seen []decision.TradeDecision
	fx := newFixture(t, enabledConfig("AAPL"), risingFeed("AAPL"),
		WithObserver(func(d decision.TradeDecision) {
			mu.Lock()
			seen = append(seen, d)
			mu.Unlock()
		}))
	fx.trader.Start()
	waitForDecisions(t, fx.trader, 1)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 3*time.Second, 5*time.Millisecond)
}
