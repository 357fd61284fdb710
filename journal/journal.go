// Package journal persists trade decisions for audit, as CSV files or a
// SQLite database.
package journal

import (
	"time"

	"github.com/rustyeddy/quant/decision"
)

// Record is one journaled decision row.
type Record struct {
	ID         string
	Instrument string
	Action     string
	Quantity   int
	Signal     string
	Score      float64
	Rationale  string
	Time       time.Time
}

// FromDecision flattens a decision into its journal row.
func FromDecision(d decision.TradeDecision) Record {
	return Record{
		ID:         d.ID,
		Instrument: d.Instrument,
		Action:     d.Action.String(),
		Quantity:   d.Quantity,
		Signal:     d.Signal.Name,
		Score:      d.Signal.Score,
		Rationale:  d.Rationale,
		Time:       d.Time,
	}
}

// Journal records decisions. Implementations must tolerate being called from
// the scheduler loop; a journal error is logged there, never fatal.
type Journal interface {
	RecordDecision(Record) error
	Close() error
}
