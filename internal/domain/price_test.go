package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPriceUpdate_Supersedes(t *testing.T) {
	t0 := time.Now()
	prev := PriceUpdate{Price: 1, ReceivedAt: t0}

	require.True(t, PriceUpdate{Price: 2, ReceivedAt: t0.Add(time.Millisecond)}.Supersedes(prev))
	require.True(t, PriceUpdate{Price: 2, ReceivedAt: t0}.Supersedes(prev))
	require.False(t, PriceUpdate{Price: 2, ReceivedAt: t0.Add(-time.Millisecond)}.Supersedes(prev))
}

func TestPriceState_Update(t *testing.T) {
	var ps PriceState
	now := time.Now()

	require.True(t, ps.Update(100, now))
	require.Equal(t, DirectionSame, ps.Direction)

	require.True(t, ps.Update(101, now))
	require.Equal(t, DirectionUp, ps.Direction)

	require.False(t, ps.Update(101, now))
	require.Equal(t, DirectionSame, ps.Direction)

	require.True(t, ps.Update(99.5, now))
	require.Equal(t, DirectionDown, ps.Direction)
	require.Equal(t, 99.5, ps.Number)
}

func TestMarketAndKey(t *testing.T) {
	m, err := ParseMarket("PERP")
	require.NoError(t, err)
	require.Equal(t, MarketFutures, m)
	_, err = ParseMarket("options")
	require.Error(t, err)

	spot := NewKey(" okx ", MarketSpot)
	require.Equal(t, "okx:spot", spot.String())
	require.True(t, spot.Less(NewKey("okx", MarketFutures)))
	require.True(t, NewKey("Binance", MarketFutures).Less(spot))
	require.Len(t, States(), 7)
	require.Equal(t, "subscription_pending", StateSubscriptionPending.String())
}
