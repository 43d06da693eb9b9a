package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
)

func newRepo(t *testing.T) *Repo {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "nested", "prices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestUpsertKeepsOneRowPerKey(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	key := domain.NewKey("binance", domain.MarketSpot)
	t0 := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, repo.UpsertLatestPrice(ctx, domain.PriceUpdate{Key: key, Price: 64000, ReceivedAt: t0}))
	require.NoError(t, repo.UpsertLatestPrice(ctx, domain.PriceUpdate{Key: key, Price: 64010.5, ReceivedAt: t0.Add(time.Second)}))

	rows, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "binance", rows[0].Venue)
	require.Equal(t, "spot", rows[0].Market)
	require.Equal(t, 64010.5, rows[0].Price)
}

func TestUpsertIgnoresOlderTimestamp(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	key := domain.NewKey("okx", domain.MarketFutures)
	t0 := time.UnixMilli(1_700_000_000_000)

	require.NoError(t, repo.UpsertLatestPrice(ctx, domain.PriceUpdate{Key: key, Price: 2, ReceivedAt: t0}))
	require.NoError(t, repo.UpsertLatestPrice(ctx, domain.PriceUpdate{Key: key, Price: 1, ReceivedAt: t0.Add(-time.Second)}))

	rows, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2.0, rows[0].Price)
}

func TestUpsertStoresExpirationAndSkipsBadPrices(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	exp := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	require.NoError(t, repo.UpsertLatestPrice(ctx, domain.PriceUpdate{
		Key: domain.NewKey("binance", domain.MarketFutures), Price: 65000, ReceivedAt: now, ExpirationDate: &exp,
	}))
	require.NoError(t, repo.UpsertLatestPrice(ctx, domain.PriceUpdate{
		Key: domain.NewKey("kraken", domain.MarketSpot), Price: 0, ReceivedAt: now,
	}))

	rows, err := repo.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "2025-06-30", rows[0].Expiration)
	require.Equal(t, "binance:futures", rows[0].Field())
}
