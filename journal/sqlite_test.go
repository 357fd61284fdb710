package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	first := sampleRecord()
	require.NoError(t, j.RecordDecision(first))

	second := first
	second.ID = "01HV3XJ3VQZJ8Q0YB7M2T5K9RE"
	second.Action = "hold"
	second.Quantity = 0
	second.Time = first.Time.Add(5 * time.Minute)
	require.NoError(t, j.RecordDecision(second))

	t.Run("newest first with limit", func(t *testing.T) {
		got, err := j.ListDecisions("AAPL", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
		assert.Equal(t, "buy", got[1].Action)
		assert.Equal(t, 100, got[1].Quantity)
		assert.InDelta(t, 0.85, got[1].Score, 1e-9)
		assert.True(t, got[1].Time.Equal(first.Time))
	})

	t.Run("limit caps results", func(t *testing.T) {
		got, err := j.ListDecisions("AAPL", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, second.ID, got[0].ID)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		assert.Error(t, j.RecordDecision(first))
	})

	t.Run("unknown instrument is empty", func(t *testing.T) {
		got, err := j.ListDecisions("MSFT", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
