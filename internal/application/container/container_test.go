package container

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/application/pricebus"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/storage/composite"
	sqliterepo "btcfeed/internal/infrastructure/storage/sqlite"
	"btcfeed/internal/interfaces/console"
)

func TestContainerWiresServices(t *testing.T) {
	sq, err := sqliterepo.New(filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)

	var out bytes.Buffer
	c := New(pricebus.New(), composite.New(sq), console.NewWriterSink(&out), 1, false)
	defer func() { require.NoError(t, c.Close()) }()

	require.Same(t, c.PriceService(), c.PriceService())
	require.Same(t, c.MonitorService(), c.MonitorService())

	key := domain.NewKey("coinbase", domain.MarketSpot)
	c.Bus().Publish(domain.PriceUpdate{Key: key, Price: 64000, ReceivedAt: time.Now()})

	q, ok := c.Feed().GetLatest("coinbase", domain.MarketSpot)
	require.True(t, ok)
	require.Equal(t, 64000.0, q.Price)

	require.NoError(t, c.PriceService().UpdatePrice(context.Background(), domain.PriceUpdate{Key: key, Price: 64000, ReceivedAt: time.Now()}))
	rows, err := sq.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, c.MonitorService().Print(time.Now()))
	require.Contains(t, out.String(), "coinbase")
}
