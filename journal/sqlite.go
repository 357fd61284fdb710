package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a decision journal database at path.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordDecision(r Record) error {
	_, err := j.db.Exec(`
		INSERT INTO decisions
		(id, instrument, action, quantity, signal, score, rationale, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Instrument, r.Action, r.Quantity, r.Signal, r.Score, r.Rationale, r.Time,
	)
	return err
}

// ListDecisions returns the most recent decisions for an instrument, newest
// first, capped at limit.
func (j *SQLiteJournal) ListDecisions(instrument string, limit int) ([]Record, error) {
	rows, err := j.db.Query(`
		SELECT id, instrument, action, quantity, signal, score, rationale, time
		FROM decisions WHERE instrument = ?
		ORDER BY time DESC LIMIT ?`, instrument, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var ts time.Time
		if err := rows.Scan(&r.ID, &r.Instrument, &r.Action, &r.Quantity, &r.Signal, &r.Score, &r.Rationale, &ts); err != nil {
			return nil, err
		}
		r.Time = ts
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
