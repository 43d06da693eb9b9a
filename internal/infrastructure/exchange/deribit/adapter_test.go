package deribit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
)

func newTestAdapter() *Adapter {
	return NewAdapter(domain.VenueDescriptor{
		Name:          "deribit",
		Protocol:      domain.ProtocolJSONRPC,
		SpotSymbol:    "BTC_USDC",
		FuturesSymbol: "BTC-PERPETUAL",
	})
}

func TestAdapter_BuildSubscription(t *testing.T) {
	sub, err := newTestAdapter().BuildSubscription(domain.MarketFutures)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":42,"method":"public/subscribe","params":{"channels":["ticker.BTC-PERPETUAL.100ms"]}}`, string(sub))
}

func TestAdapter_ExtractPrice(t *testing.T) {
	a := newTestAdapter()
	tests := []struct {
		name   string
		market domain.Market
		input  string
		want   float64
		ok     bool
	}{
		{"futures mark", domain.MarketFutures, `{"jsonrpc":"2.0","method":"subscription","params":{"channel":"ticker.BTC-PERPETUAL.100ms","data":{"instrument_name":"BTC-PERPETUAL","last_price":64010.5,"mark_price":64012.25}}}`, 64012.25, true},
		{"spot last", domain.MarketSpot, `{"jsonrpc":"2.0","method":"subscription","params":{"channel":"ticker.BTC_USDC.100ms","data":{"instrument_name":"BTC_USDC","last_price":64001,"mark_price":64002}}}`, 64001, true},
		{"subscribe result", domain.MarketFutures, `{"jsonrpc":"2.0","id":42,"result":["ticker.BTC-PERPETUAL.100ms"]}`, 0, false},
		{"heartbeat", domain.MarketFutures, `{"jsonrpc":"2.0","method":"heartbeat","params":{"type":"test_request"}}`, 0, false},
		{"other channel", domain.MarketFutures, `{"jsonrpc":"2.0","method":"subscription","params":{"channel":"ticker.ETH-PERPETUAL.100ms","data":{"mark_price":3000}}}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := codec.Decode(domain.ProtocolJSONRPC, []byte(tt.input))
			require.NoError(t, err)
			got, ok := a.ExtractPrice(tt.market, f)
			require.Equal(t, tt.ok, ok)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAdapter_LivenessReply(t *testing.T) {
	a := newTestAdapter()

	f, err := codec.Decode(domain.ProtocolJSONRPC, []byte(`{"jsonrpc":"2.0","method":"heartbeat","params":{"type":"test_request"}}`))
	require.NoError(t, err)
	reply, ok := a.LivenessReply(f)
	require.True(t, ok)
	require.JSONEq(t, `{"jsonrpc":"2.0","id":43,"method":"public/test","params":{}}`, string(reply))

	f, err = codec.Decode(domain.ProtocolJSONRPC, []byte(`{"jsonrpc":"2.0","method":"heartbeat","params":{"type":"heartbeat"}}`))
	require.NoError(t, err)
	_, ok = a.LivenessReply(f)
	require.False(t, ok)
}
