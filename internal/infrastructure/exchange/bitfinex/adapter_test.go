package bitfinex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
)

func TestAdapter(t *testing.T) {
	a := NewAdapter(domain.VenueDescriptor{Name: "bitfinex", Protocol: domain.ProtocolPlainJSON, SpotSymbol: "tBTCUSD"})

	sub, err := a.BuildSubscription(domain.MarketSpot)
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"subscribe","channel":"ticker","symbol":"tBTCUSD"}`, string(sub))

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"ticker", `[17082,[64190,10.5,64191,8.2,-120,-0.0018,64190.5,1234.5,64500,63800]]`, 64190.5, true},
		{"heartbeat", `[17082,"hb"]`, 0, false},
		{"info event", `{"event":"info","version":2,"serverId":"x","platform":{"status":1}}`, 0, false},
		{"subscribed event", `{"event":"subscribed","channel":"ticker","chanId":17082,"symbol":"tBTCUSD","pair":"BTCUSD"}`, 0, false},
		{"short ticker", `[17082,[64190,10.5]]`, 0, false},
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
