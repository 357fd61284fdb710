package journal

const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	action TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	signal TEXT NOT NULL,
	score REAL NOT NULL,
	rationale TEXT NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_instrument_time ON decisions(instrument, time);
`
