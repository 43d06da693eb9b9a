package binance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
)

func TestAdapter_ExtractPrice(t *testing.T) {
	a := NewAdapter(domain.VenueDescriptor{Name: "binance", Protocol: domain.ProtocolPlainJSON, SpotSymbol: "btcusdt"})

	tests := []struct {
		name   string
		market domain.Market
		input  string
		want   float64
		ok     bool
	}{
		{"string price", domain.MarketSpot, `{"p":"64123.45"}`, 64123.45, true},
		{"trade event", domain.MarketSpot, `{"e":"trade","s":"BTCUSDT","p":"64000.10","q":"0.01"}`, 64000.10, true},
		{"mark price", domain.MarketFutures, `{"e":"markPriceUpdate","s":"BTCUSDT_250630","p":"65010.00000000"}`, 65010, true},
		{"no price", domain.MarketSpot, `{"result":null,"id":1}`, 0, false},
		{"zero price", domain.MarketSpot, `{"p":"0"}`, 0, false},
		{"garbage price", domain.MarketSpot, `{"p":"abc"}`, 0, false},
		{"array frame", domain.MarketSpot, `[1,2,3]`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := codec.Decode(domain.ProtocolPlainJSON, []byte(tt.input))
			require.NoError(t, err)
			got, ok := a.ExtractPrice(tt.market, f)
			require.Equal(t, tt.ok, ok)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAdapter_NoSubscription(t *testing.T) {
	a := NewAdapter(domain.VenueDescriptor{Name: "binance"})
	frame, err := a.BuildSubscription(domain.MarketSpot)
	require.NoError(t, err)
	require.Nil(t, frame)
}
