package markethub

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (s *Store) insertRunStart(ctx context.Context, runID string, metaJSON *string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO collector_runs (id, started_at, meta_json)
VALUES (?,?,?)
`, runID, time.Now().Format(time.RFC3339Nano), metaJSON)
	return err
}

func (s *Store) finishRun(ctx context.Context, runID string, ok bool, errMsg *string, metaJSON *string) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE collector_runs
SET finished_at=?, ok=?, error=?, meta_json=?
WHERE id=?
`, time.Now().Format(time.RFC3339Nano), boolToInt(ok), errMsg, metaJSON, runID)
	return err
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]CollectorRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, finished_at, ok, error, meta_json
FROM collector_runs
ORDER BY started_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CollectorRun
	for rows.Next() {
		var (
			r          CollectorRun
			startedAt  string
			finishedAt sql.NullString
			okVal      sql.NullInt64
			errStr     sql.NullString
			meta       sql.NullString
		)
		if err := rows.Scan(&r.ID, &startedAt, &finishedAt, &okVal, &errStr, &meta); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		if finishedAt.Valid {
			if t, err := time.Parse(time.RFC3339Nano, finishedAt.String); err == nil {
				r.FinishedAt = &t
			}
		}
		if okVal.Valid {
			v := okVal.Int64 != 0
			r.OK = &v
		}
		if errStr.Valid {
			v := errStr.String
			r.Error = &v
		}
		if meta.Valid {
			v := meta.String
			r.MetaJSON = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetRun(ctx context.Context, runID string) (*CollectorRun, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, started_at, finished_at, ok, error, meta_json
FROM collector_runs
WHERE id=?
`, runID)
	var (
		r          CollectorRun
		startedAt  string
		finishedAt sql.NullString
		okVal      sql.NullInt64
		errStr     sql.NullString
		meta       sql.NullString
	)
	if err := row.Scan(&r.ID, &startedAt, &finishedAt, &okVal, &errStr, &meta); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan collector run: %w", err)
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
	if finishedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, finishedAt.String); err == nil {
			r.FinishedAt = &t
		}
	}
	if okVal.Valid {
		v := okVal.Int64 != 0
		r.OK = &v
	}
	if errStr.Valid {
		v := errStr.String
		r.Error = &v
	}
	if meta.Valid {
		v := meta.String
		r.MetaJSON = &v
	}
	return &r, nil
}

func (s *Store) insertTickerSnapshot(ctx context.Context, snap TickerSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ticker_snapshots (run_id, symbol, open_price, close_price, high_price, low_price, price_change, price_change_percent, quantity, amount, ts)
VALUES (?,?,?,?,?,?,?,?,?,?,?)
`, snap.RunID, snap.Symbol, snap.OpenPrice, snap.ClosePrice, snap.HighPrice, snap.LowPrice,
		snap.PriceChange, snap.PriceChangePercent, snap.Quantity, snap.Amount, snap.TS.Format(time.RFC3339Nano))
	return err
}

func (s *Store) insertBookSnapshot(ctx context.Context, snap BookSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO book_snapshots (run_id, symbol, bid_price, bid_quantity, ask_price, ask_quantity, ts)
VALUES (?,?,?,?,?,?,?)
`, snap.RunID, snap.Symbol, snap.BidPrice, snap.BidQuantity, snap.AskPrice, snap.AskQuantity,
		snap.TS.Format(time.RFC3339Nano))
	return err
}

func (s *Store) ListTickerSnapshots(ctx context.Context, symbol string, limit int) ([]TickerSnapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, symbol, open_price, close_price, high_price, low_price, price_change, price_change_percent, quantity, amount, ts
FROM ticker_snapshots
WHERE symbol=?
ORDER BY ts DESC
LIMIT ?
`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TickerSnapshot
	for rows.Next() {
		var (
			snap TickerSnapshot
			ts   string
		)
		if err := rows.Scan(&snap.RunID, &snap.Symbol, &snap.OpenPrice, &snap.ClosePrice, &snap.HighPrice,
			&snap.LowPrice, &snap.PriceChange, &snap.PriceChangePercent, &snap.Quantity, &snap.Amount, &ts); err != nil {
			return nil, err
		}
		snap.TS, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Store) ListBookSnapshots(ctx context.Context, symbol string, limit int) ([]BookSnapshot, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, symbol, bid_price, bid_quantity, ask_price, ask_quantity, ts
FROM book_snapshots
WHERE symbol=?
ORDER BY ts DESC
LIMIT ?
`, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookSnapshot
	for rows.Next() {
		var (
			snap BookSnapshot
			ts   string
		)
		if err := rows.Scan(&snap.RunID, &snap.Symbol, &snap.BidPrice, &snap.BidQuantity,
			&snap.AskPrice, &snap.AskQuantity, &ts); err != nil {
			return nil, err
		}
		snap.TS, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// LatestBookSnapshots 每个交易对最近一条盘口快照
func (s *Store) LatestBookSnapshots(ctx context.Context) ([]BookSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, symbol, bid_price, bid_quantity, ask_price, ask_quantity, ts
FROM book_snapshots
WHERE ts = (SELECT MAX(ts) FROM book_snapshots b2 WHERE b2.symbol = book_snapshots.symbol)
ORDER BY symbol
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookSnapshot
	for rows.Next() {
		var (
			snap BookSnapshot
			ts   string
		)
		if err := rows.Scan(&snap.RunID, &snap.Symbol, &snap.BidPrice, &snap.BidQuantity,
			&snap.AskPrice, &snap.AskQuantity, &ts); err != nil {
			return nil, err
		}
		snap.TS, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, snap)
	}
	return out, rows.Err()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
