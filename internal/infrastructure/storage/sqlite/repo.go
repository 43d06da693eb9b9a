package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/storage/record"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS latest_prices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  venue TEXT NOT NULL,
  market TEXT NOT NULL,
  price REAL NOT NULL,
  ts_ms INTEGER NOT NULL,
  expiration TEXT NOT NULL DEFAULT '',
  updated_at INTEGER NOT NULL,
  UNIQUE(venue, market)
);
CREATE INDEX IF NOT EXISTS idx_latest_prices_ts ON latest_prices(ts_ms);
`)
	return err
}

// UpsertLatestPrice 每个 (venue, market) 只保留一行；旧时间戳不会覆盖新值。
func (r *Repo) UpsertLatestPrice(ctx context.Context, u domain.PriceUpdate) error {
	if !(u.Price > 0) {
		return nil
	}
	lp := record.FromUpdate(u)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO latest_prices(venue, market, price, ts_ms, expiration, updated_at)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(venue, market) DO UPDATE SET
  price = excluded.price,
  ts_ms = excluded.ts_ms,
  expiration = excluded.expiration,
  updated_at = excluded.updated_at
WHERE excluded.ts_ms >= latest_prices.ts_ms
`, lp.Venue, lp.Market, lp.Price, lp.TsMs, lp.Expiration, time.Now().UnixMilli())
	return err
}

// Latest returns every stored row ordered by venue, then market.
func (r *Repo) Latest(ctx context.Context) ([]record.Latest, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT venue, market, price, ts_ms, expiration FROM latest_prices ORDER BY venue, market`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record.Latest
	for rows.Next() {
		var lp record.Latest
		if err := rows.Scan(&lp.Venue, &lp.Market, &lp.Price, &lp.TsMs, &lp.Expiration); err != nil {
			return nil, err
		}
		out = append(out, lp)
	}
	return out, rows.Err()
}

var _ port.LatestPriceStore = (*Repo)(nil)
