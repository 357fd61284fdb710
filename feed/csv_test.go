package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `time,open,high,low,close,volume
2024-05-01T09:30:00Z,100.0,101.5,99.5,101.0,1500
2024-05-01T09:35:00Z,101.0,102.0,100.5,101.8,1200
2024-05-01T09:40:00Z,101.8,103.0,101.0,102.5,1800
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBars(t *testing.T) {
	t.Run("parses rows and skips the header", func(t *testing.T) {
		bars, err := LoadBars(writeTempCSV(t, sampleCSV), "AAPL")
		require.NoError(t, err)
		require.Len(t, bars, 3)

		assert.Equal(t, "AAPL", bars[0].Instrument)
		assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), bars[0].Time)
		assert.Equal(t, 100.0, bars[0].Open)
		assert.Equal(t, 101.5, bars[0].High)
		assert.Equal(t, 99.5, bars[0].Low)
		assert.Equal(t, 101.0, bars[0].Close)
		assert.Equal(t, int64(1500), bars[0].Volume)
		assert.Equal(t, 102.5, bars[2].Close)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadBars(filepath.Join(t.TempDir(), "nope.csv"), "AAPL")
		assert.Error(t, err)
	})

	t.Run("bad timestamp past the header", func(t *testing.T) {
		_, err := LoadBars(writeTempCSV(t, sampleCSV+"not-a-time,1,1,1,1,1\n"), "AAPL")
		assert.Error(t, err)
	})

	t.Run("bad volume", func(t *testing.T) {
		_, err := LoadBars(writeTempCSV(t, "2024-05-01T09:30:00Z,1,1,1,1,1.5\n"), "AAPL")
		assert.Error(t, err)
	})
}

func TestNewCSVHistory(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)
	s, err := NewCSVHistory(map[string]string{"AAPL": path})
	require.NoError(t, err)

	ctx := context.Background()
	bars, err := s.History(ctx, "AAPL", 50)
	require.NoError(t, err)
	assert.Len(t, bars, 3)

	q, err := s.LatestQuote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 102.5, q.Close)
}
