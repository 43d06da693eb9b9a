package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVenueDescriptor_Validate(t *testing.T) {
	ok := VenueDescriptor{
		Name:                    "binance",
		Protocol:                ProtocolPlainJSON,
		SpotEndpointTemplate:    "wss://stream.binance.com:9443/ws/{symbol}@trade",
		FuturesEndpointTemplate: "wss://fstream.binance.com/ws/{symbol}@markPrice",
		SpotSymbol:              "btcusdt",
		FuturesSymbol:           "btcusdt_250630",
	}
	require.NoError(t, ok.Validate())

	cases := map[string]struct {
		mutate func(*VenueDescriptor)
		field  string
	}{
		"empty name":       {func(d *VenueDescriptor) { d.Name = " " }, "name"},
		"no spot url":      {func(d *VenueDescriptor) { d.SpotEndpointTemplate = "" }, "spot_url"},
		"template no sym":  {func(d *VenueDescriptor) { d.SpotSymbol = "" }, "spot_url"},
		"futures no sym":   {func(d *VenueDescriptor) { d.FuturesSymbol = "" }, "futures_url"},
		"unknown protocol": {func(d *VenueDescriptor) { d.Protocol = 0 }, "protocol"},
		"negative ping":    {func(d *VenueDescriptor) { d.KeepAliveInterval = -time.Second }, "keepalive_interval"},
		"token no handshake": {func(d *VenueDescriptor) {
			d.Protocol = ProtocolTwoPhaseToken
		}, "handshake_url"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := ok
			tc.mutate(&d)
			err := d.Validate()
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			require.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestVenueDescriptor_Endpoints(t *testing.T) {
	exp := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	d := VenueDescriptor{
		Name:                    "Binance",
		Protocol:                ProtocolPlainJSON,
		SpotEndpointTemplate:    "wss://s/ws/{symbol}@trade",
		FuturesEndpointTemplate: "wss://f/ws/{symbol}@markPrice",
		SpotSymbol:              "btcusdt",
		FuturesSymbol:           "btcusdt_250630",
		ExpirationDate:          &exp,
	}
	require.Equal(t, "binance", d.AdapterName())
	require.Equal(t, []Market{MarketSpot, MarketFutures}, d.Markets())
	require.Equal(t, "wss://s/ws/btcusdt@trade", d.Endpoint(MarketSpot))
	require.Equal(t, "wss://f/ws/btcusdt_250630@markPrice", d.Endpoint(MarketFutures))
	require.Nil(t, d.Expiration(MarketSpot))
	require.Equal(t, &exp, d.Expiration(MarketFutures))
	require.Empty(t, d.Handshake(MarketSpot))

	d.Adapter = "BINANCE"
	d.Name = "binance_us"
	require.Equal(t, "binance", d.AdapterName())
}

func TestVenueDescriptor_TokenVenue(t *testing.T) {
	d := VenueDescriptor{
		Name:         "kucoin",
		Protocol:     ProtocolTwoPhaseToken,
		HandshakeURL: "https://api.kucoin.com/api/v1/bullet-public",
		SpotSymbol:   "BTC-USDT",
	}
	require.NoError(t, d.Validate())
	require.Equal(t, []Market{MarketSpot}, d.Markets())
	require.Empty(t, d.Endpoint(MarketSpot))
	require.Equal(t, d.HandshakeURL, d.Handshake(MarketSpot))
	require.Empty(t, d.Handshake(MarketFutures))
}

func TestParseProtocolKind(t *testing.T) {
	for _, p := range []ProtocolKind{ProtocolPlainJSON, ProtocolJSONRPC, ProtocolBinaryGzipJSON, ProtocolTwoPhaseToken} {
		got, err := ParseProtocolKind(p.String())
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
	_, err := ParseProtocolKind("smoke signals")
	require.Error(t, err)
}
