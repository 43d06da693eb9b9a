package pricebus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
)

func TestFeed(t *testing.T) {
	b := New()
	f := NewFeed(b)

	_, ok := f.GetLatest("Binance", domain.MarketFutures)
	require.False(t, ok)

	exp := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	u := upd(futureKey, 65010, 0)
	u.ExpirationDate = &exp
	b.Publish(u)

	q, ok := f.GetLatest("Binance", domain.MarketFutures)
	require.True(t, ok)
	require.Equal(t, 65010.0, q.Price)
	require.Equal(t, t0, q.Timestamp)
	require.Equal(t, exp, *q.ExpirationDate)

	ctx, cancel := context.WithCancel(context.Background())
	ch := f.Subscribe(ctx, "binance", domain.MarketFutures)

	select {
	case q := <-ch:
		require.Equal(t, 65010.0, q.Price)
	case <-time.After(time.Second):
		t.Fatal("no initial quote")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
