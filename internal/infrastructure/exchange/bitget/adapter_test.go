package bitget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
)

func TestAdapter(t *testing.T) {
	a := NewAdapter(domain.VenueDescriptor{Name: "bitget", Protocol: domain.ProtocolPlainJSON, SpotSymbol: "BTCUSDT", FuturesSymbol: "BTCUSDT"})

	sub, err := a.BuildSubscription(domain.MarketFutures)
	require.NoError(t, err)
	require.JSONEq(t, `{"op":"subscribe","args":[{"instType":"USDT-FUTURES","channel":"ticker","instId":"BTCUSDT"}]}`, string(sub))

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"snapshot", `{"action":"snapshot","arg":{"instType":"SPOT","channel":"ticker","instId":"BTCUSDT"},"data":[{"instId":"BTCUSDT","lastPr":"64300.7"}]}`, 64300.7, true},
		{"update", `{"action":"update","arg":{"instType":"SPOT","channel":"ticker","instId":"BTCUSDT"},"data":[{"instId":"BTCUSDT","lastPr":"64301"}]}`, 64301, true},
		{"subscribe event", `{"event":"subscribe","arg":{"instType":"SPOT","channel":"ticker","instId":"BTCUSDT"}}`, 0, false},
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
