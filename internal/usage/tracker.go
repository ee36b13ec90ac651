package usage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one generation event.
type Record struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Tokens    int       `json:"tokens"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary aggregates usage per provider and model.
type Summary struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	Requests    int64  `json:"requests"`
	CacheHits   int64  `json:"cacheHits"`
	TotalTokens int64  `json:"totalTokens"`
}

// Tracker records token usage in a SQLite database.
type Tracker struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS usage_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	tokens INTEGER NOT NULL,
	cached INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_usage_provider_model ON usage_records(provider, model);
`

// New opens (creating if needed) the usage database at path.
func New(path string) (*Tracker, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating usage db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening usage db: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating usage db: %w", err)
	}
	return &Tracker{db: db}, nil
}

// Record stores a usage record.
func (t *Tracker) Record(ctx context.Context, rec Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO usage_records (provider, model, tokens, cached, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.Provider, rec.Model, rec.Tokens, boolToInt(rec.Cached), createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// Summary returns aggregated usage grouped by provider and model, most used
// first.
func (t *Tracker) Summary(ctx context.Context) ([]Summary, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT provider, model, COUNT(*), SUM(cached), SUM(tokens)
		 FROM usage_records
		 GROUP BY provider, model
		 ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying usage summary: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Provider, &s.Model, &s.Requests, &s.CacheHits, &s.TotalTokens); err != nil {
			return nil, fmt.Errorf("scanning usage summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close releases the database connection.
func (t *Tracker) Close() error {
	return t.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
