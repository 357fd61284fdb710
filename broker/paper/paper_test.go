package paper

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quant/broker"
	"github.com/rustyeddy/quant/feed"
	"github.com/rustyeddy/quant/market"
)

func newTestBroker(t *testing.T, cash float64) (*Broker, *feed.Static) {
	t.Helper()
	quotes := feed.NewStatic()
	quotes.SetQuote(market.Bar{Instrument: "AAPL", Close: 100})
	return New(cash, quotes, zerolog.Nop()), quotes
}

func TestPaperBuyAndSell(t *testing.T) {
	b, quotes := newTestBroker(t, 50000)
	ctx := context.Background()

	fill, err := b.Submit(ctx, "AAPL", broker.SideBuy, 100)
	require.NoError(t, err)
	require.NotNil(t, fill)
	assert.Equal(t, 100, fill.Quantity)
	assert.Equal(t, 100.0, fill.Price)
	assert.Equal(t, 40000.0, b.Cash())

	pos, err := b.GetPosition(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 100, pos.Shares)
	assert.Equal(t, 100.0, pos.AvgCost)

	// Price moves, position marks to the new quote.
	quotes.SetQuote(market.Bar{Instrument: "AAPL", Close: 110})
	pos, err = b.GetPosition(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 110.0, pos.Price)
	assert.InDelta(t, 11000.0, pos.MarketValue(), 1e-9)

	fill, err = b.Submit(ctx, "AAPL", broker.SideSell, 100)
	require.NoError(t, err)
	assert.Equal(t, 110.0, fill.Price)
	assert.Equal(t, 51000.0, b.Cash())

	pos, _ = b.GetPosition(ctx, "AAPL")
	assert.Equal(t, 0, pos.Shares)
	assert.Equal(t, 0.0, pos.AvgCost)
}

func TestPaperAverageCost(t *testing.T) {
	b, quotes := newTestBroker(t, 100000)
	ctx := context.Background()

	_, err := b.Submit(ctx, "AAPL", broker.SideBuy, 10)
	require.NoError(t, err)
	quotes.SetQuote(market.Bar{Instrument: "AAPL", Close: 200})
	_, err = b.Submit(ctx, "AAPL", broker.SideBuy, 10)
	require.NoError(t, err)

	pos, _ := b.GetPosition(ctx, "AAPL")
	assert.Equal(t, 20, pos.Shares)
	assert.InDelta(t, 150.0, pos.AvgCost, 1e-9)
}

func TestPaperRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient cash", func(t *testing.T) {
		b, _ := newTestBroker(t, 500)
		fill, err := b.Submit(ctx, "AAPL", broker.SideBuy, 100)
		assert.ErrorIs(t, err, broker.ErrRejected)
		assert.Nil(t, fill)
		assert.Equal(t, 500.0, b.Cash())
	})

	t.Run("selling more than held", func(t *testing.T) {
		b, _ := newTestBroker(t, 50000)
		_, err := b.Submit(ctx, "AAPL", broker.SideSell, 1)
		assert.ErrorIs(t, err, broker.ErrRejected)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		b, _ := newTestBroker(t, 50000)
		_, err := b.Submit(ctx, "AAPL", broker.SideBuy, 0)
		assert.ErrorIs(t, err, broker.ErrRejected)
	})

	t.Run("no quote", func(t *testing.T) {
		b, _ := newTestBroker(t, 50000)
		_, err := b.Submit(ctx, "MSFT", broker.SideBuy, 1)
		assert.Error(t, err)
	})
}
