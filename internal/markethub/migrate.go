package markethub

import (
	"context"
	"fmt"
	"time"
)

func (s *Store) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`
CREATE TABLE IF NOT EXISTS collector_runs (
  id TEXT PRIMARY KEY,
  started_at TEXT NOT NULL,
  finished_at TEXT,
  ok INTEGER,
  error TEXT,
  meta_json TEXT
);`,
		`CREATE INDEX IF NOT EXISTS idx_collector_runs_started_at ON collector_runs(started_at DESC);`,
		`
CREATE TABLE IF NOT EXISTS ticker_snapshots (
  run_id TEXT NOT NULL REFERENCES collector_runs(id) ON DELETE CASCADE,
  symbol TEXT NOT NULL,
  open_price TEXT NOT NULL,
  close_price TEXT NOT NULL,
  high_price TEXT NOT NULL,
  low_price TEXT NOT NULL,
  price_change TEXT NOT NULL,
  price_change_percent REAL NOT NULL,
  quantity TEXT NOT NULL,
  amount TEXT NOT NULL,
  ts TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_ticker_snapshots_symbol_ts ON ticker_snapshots(symbol, ts DESC);`,
		`
CREATE TABLE IF NOT EXISTS book_snapshots (
  run_id TEXT NOT NULL REFERENCES collector_runs(id) ON DELETE CASCADE,
  symbol TEXT NOT NULL,
  bid_price TEXT NOT NULL,
  bid_quantity TEXT NOT NULL,
  ask_price TEXT NOT NULL,
  ask_quantity TEXT NOT NULL,
  ts TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_book_snapshots_symbol_ts ON book_snapshots(symbol, ts DESC);`,
	}

	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate exec failed: %w", err)
		}
	}
	return nil
}
