package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

// NewCSV creates (truncating) a decision journal at path.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "instrument", "action", "quantity", "signal", "score", "rationale", "time"}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordDecision(r Record) error {
	err := j.w.Write([]string{
		r.ID,
		r.Instrument,
		r.Action,
		strconv.Itoa(r.Quantity),
		r.Signal,
		strconv.FormatFloat(r.Score, 'f', 6, 64),
		r.Rationale,
		r.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}
