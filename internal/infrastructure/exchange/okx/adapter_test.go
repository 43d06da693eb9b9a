package okx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
)

func TestAdapter(t *testing.T) {
	a := NewAdapter(domain.VenueDescriptor{Name: "okx", Protocol: domain.ProtocolPlainJSON, SpotSymbol: "BTC-USDT", FuturesSymbol: "BTC-USDT-SWAP"})

	sub, err := a.BuildSubscription(domain.MarketSpot)
	require.NoError(t, err)
	require.JSONEq(t, `{"op":"subscribe","args":[{"channel":"tickers","instId":"BTC-USDT"}]}`, string(sub))

	sub, err = a.BuildSubscription(domain.MarketFutures)
	require.NoError(t, err)
	require.JSONEq(t, `{"op":"subscribe","args":[{"channel":"tickers","instId":"BTC-USDT-SWAP"}]}`, string(sub))

	require.Equal(t, "ping", string(a.PingFrame(domain.MarketSpot)))

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"ticker", `{"arg":{"channel":"tickers","instId":"BTC-USDT"},"data":[{"instId":"BTC-USDT","last":"64250.1","ts":"1"}]}`, 64250.1, true},
		{"subscribe event", `{"event":"subscribe","arg":{"channel":"tickers","instId":"BTC-USDT"}}`, 0, false},
		{"empty data", `{"arg":{"channel":"tickers","instId":"BTC-USDT"},"data":[]}`, 0, false},
		{"other channel", `{"arg":{"channel":"books","instId":"BTC-USDT"},"data":[{"last":"1"}]}`, 0, false},
		{"pong", `pong`, 0, false},
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
