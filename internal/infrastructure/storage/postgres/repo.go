package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/storage/record"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

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
  venue TEXT NOT NULL,
  market TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL,
  expiration TEXT NOT NULL DEFAULT '',
  updated_at TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (venue, market)
);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, u domain.PriceUpdate) error {
	if !(u.Price > 0) {
		return nil
	}
	lp := record.FromUpdate(u)
	_, err := r.db.ExecContext(ctx, `
INSERT INTO latest_prices(venue, market, price, ts_ms, expiration, updated_at)
VALUES($1, $2, $3, $4, $5, $6)
ON CONFLICT (venue, market) DO UPDATE SET
  price = EXCLUDED.price,
  ts_ms = EXCLUDED.ts_ms,
  expiration = EXCLUDED.expiration,
  updated_at = EXCLUDED.updated_at
WHERE EXCLUDED.ts_ms >= latest_prices.ts_ms
`, lp.Venue, lp.Market, lp.Price, lp.TsMs, lp.Expiration, time.Now().UTC())
	return err
}

var _ port.LatestPriceStore = (*Repo)(nil)
