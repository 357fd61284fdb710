// Package feed hosts the price data sources the engine can be wired to:
// in-memory fixtures, CSV files, and a streaming quote cache.
package feed

import (
	"context"
	"sync"

	"github.com/rustyeddy/quant/market"
)

// Static serves bars and quotes from memory. It backs tests and demo runs,
// and doubles as the quote surface when history files are the only data
// source. Safe for concurrent use.
type Static struct {
	mu     sync.RWMutex
	bars   map[string][]market.Bar
	quotes map[string]market.Bar
}

// NewStatic creates an empty in-memory feed.
func NewStatic() *Static {
	return &Static{
		bars:   make(map[string][]market.Bar),
		quotes: make(map[string]market.Bar),
	}
}

// SetBars replaces the history for an instrument (oldest first) and sets the
// latest quote to the last bar.
func (s *Static) SetBars(instrument string, bars []market.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]market.Bar, len(bars))
	copy(cp, bars)
	s.bars[instrument] = cp
	if len(cp) > 0 {
		s.quotes[instrument] = cp[len(cp)-1]
	}
}

// SetQuote replaces only the latest quote for an instrument.
func (s *Static) SetQuote(b market.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[b.Instrument] = b
}

// ClearQuote removes the quote for an instrument; lookups return ErrNoQuote.
func (s *Static) ClearQuote(instrument string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, instrument)
}

// History returns up to lookback bars, oldest first.
func (s *Static) History(_ context.Context, instrument string, lookback int) ([]market.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bars := s.bars[instrument]
	if lookback > 0 && len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	out := make([]market.Bar, len(bars))
	copy(out, bars)
	return out, nil
}

// LatestQuote returns the current quote or ErrNoQuote.
func (s *Static) LatestQuote(_ context.Context, instrument string) (*market.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[instrument]
	if !ok {
		return nil, market.ErrNoQuote
	}
	return &q, nil
}
