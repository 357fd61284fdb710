// Package market defines the price types and provider interfaces the rest of
// the engine is built on.
package market

import "time"

// Bar is one OHLCV sample for one instrument at one timestamp.
// Times are always UTC-normalized. Upstream data may violate the usual
// high >= open/close >= low ordering; consumers must tolerate that.
type Bar struct {
	Instrument string
	Time       time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume int64
}

// Closes extracts the close series from a bar slice, aligned index-for-index.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
