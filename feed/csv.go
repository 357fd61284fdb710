package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/quant/market"
)

// LoadBars reads bars for one instrument from a CSV file with columns
// time,open,high,low,close,volume. Times are RFC3339 and normalized to UTC.
// A header row is detected and skipped.
func LoadBars(path, instrument string) ([]market.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	var bars []market.Bar
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", path, line+1, err)
		}
		line++

		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			if line == 1 {
				// Header row
				continue
			}
			return nil, fmt.Errorf("parse time %q line %d: %w", rec[0], line, err)
		}

		vals := make([]float64, 4)
		for i := 0; i < 4; i++ {
			vals[i], err = strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse field %q line %d: %w", rec[i+1], line, err)
			}
		}
		volume, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse volume %q line %d: %w", rec[5], line, err)
		}

		bars = append(bars, market.Bar{
			Instrument: instrument,
			Time:       ts.UTC(),
			Open:       vals[0],
			High:       vals[1],
			Low:        vals[2],
			Close:      vals[3],
			Volume:     volume,
		})
	}
	return bars, nil
}

// NewCSVHistory loads one CSV file per instrument into a Static feed. The
// last bar of each file becomes that instrument's quote.
func NewCSVHistory(files map[string]string) (*Static, error) {
	s := NewStatic()
	for instrument, path := range files {
		bars, err := LoadBars(path, instrument)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", instrument, err)
		}
		s.SetBars(instrument, bars)
	}
	return s, nil
}
