package factory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/catalog"
	"btcfeed/internal/infrastructure/config"
)

func TestNewTargetsCoversEveryCatalogKey(t *testing.T) {
	cat, err := catalog.Load(nil)
	require.NoError(t, err)

	targets, err := NewTargets(cat)
	require.NoError(t, err)
	require.Len(t, targets, len(cat.Keys()))

	for i, key := range cat.Keys() {
		tg := targets[i]
		require.Equal(t, key, domain.NewKey(tg.Descriptor.Name, tg.Market))
		require.NotNil(t, tg.Adapter)
	}
}

func TestNewTargetsReusesAdapterFamily(t *testing.T) {
	cat, err := catalog.Load(map[string]config.VenueConfig{
		"binance_us": {
			Adapter:    "binance",
			Protocol:   "plain_json",
			SpotURL:    "wss://stream.binance.us:9443/ws/{symbol}@trade",
			SpotSymbol: "btcusd",
		},
	})
	require.NoError(t, err)

	targets, err := NewTargets(cat)
	require.NoError(t, err)

	var found bool
	for _, tg := range targets {
		if tg.Descriptor.Name == "binance_us" {
			found = true
			require.Equal(t, "binance", tg.Adapter.Name())
		}
	}
	require.True(t, found)
}

func TestNewTargetsUnknownAdapter(t *testing.T) {
	cat, err := catalog.Load(map[string]config.VenueConfig{
		"mystery": {Protocol: "plain_json", SpotURL: "wss://example.invalid/ws"},
	})
	require.NoError(t, err)

	_, err = NewTargets(cat)
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, "mystery", cfgErr.Venue)
}
