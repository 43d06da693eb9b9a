package coinbase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
)

func TestAdapter(t *testing.T) {
	a := NewAdapter(domain.VenueDescriptor{Name: "coinbase", Protocol: domain.ProtocolPlainJSON, SpotSymbol: "BTC-USD"})

	sub, err := a.BuildSubscription(domain.MarketSpot)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"subscribe","product_ids":["BTC-USD"],"channels":["ticker"]}`, string(sub))

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"ticker", `{"type":"ticker","sequence":1,"product_id":"BTC-USD","price":"64150.33"}`, 64150.33, true},
		{"subscriptions ack", `{"type":"subscriptions","channels":[{"name":"ticker","product_ids":["BTC-USD"]}]}`, 0, false},
		{"heartbeat", `{"type":"heartbeat","product_id":"BTC-USD"}`, 0, false},
		{"other product", `{"type":"ticker","product_id":"ETH-USD","price":"3000"}`, 0, false},
		{"error", `{"type":"error","message":"Failed to subscribe"}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := codec.Decode(domain.ProtocolPlainJSON, []byte(tt.input))
			require.NoError(t, err)
			got, ok := a.ExtractPrice(domain.MarketSpot, f)
			require.Equal(t, tt.ok, ok)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
