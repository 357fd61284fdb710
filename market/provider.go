package market

import (
	"context"
	"errors"
)

// ErrNoQuote is returned by QuoteProvider implementations when no current
// quote exists for an instrument. Callers treat it as "degrade to hold",
// never as fatal.
var ErrNoQuote = errors.New("market: no quote available")

// HistoryProvider supplies historical bars for an instrument, oldest first.
// Implementations may return fewer bars than requested but must never return
// bars out of chronological order.
type HistoryProvider interface {
	History(ctx context.Context, instrument string, lookback int) ([]Bar, error)
}

// QuoteProvider supplies the most recent bar (quote) for an instrument.
// A nil bar or an error both mean "no quote right now".
type QuoteProvider interface {
	LatestQuote(ctx context.Context, instrument string) (*Bar, error)
}
