package bybit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
)

func newTestAdapter() *Adapter {
	return NewAdapter(domain.VenueDescriptor{
		Name:          "bybit",
		Protocol:      domain.ProtocolPlainJSON,
		SpotSymbol:    "BTCUSDT",
		FuturesSymbol: "BTCUSDT",
	})
}

func TestAdapter_BuildSubscription(t *testing.T) {
	a := newTestAdapter()
	frame, err := a.BuildSubscription(domain.MarketSpot)
	require.NoError(t, err)
	require.JSONEq(t, `{"op":"subscribe","args":["tickers.BTCUSDT"]}`, string(frame))

	again, err := a.BuildSubscription(domain.MarketSpot)
	require.NoError(t, err)
	require.Equal(t, frame, again)
}

func TestAdapter_ExtractPrice(t *testing.T) {
	a := newTestAdapter()

	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"object data", `{"topic":"tickers.BTCUSDT","type":"snapshot","data":{"symbol":"BTCUSDT","lastPrice":"64100.5"}}`, 64100.5, true},
		{"array data", `{"topic":"tickers.BTCUSDT","type":"snapshot","data":[{"symbol":"BTCUSDT","lastPrice":"64101"}]}`, 64101, true},
		{"price field", `{"topic":"tickers.BTCUSDT","data":{"price":"64102.25"}}`, 64102.25, true},
		{"subscribe ack", `{"success":true,"ret_msg":"","op":"subscribe","conn_id":"x"}`, 0, false},
		{"pong", `{"success":true,"ret_msg":"pong","op":"ping"}`, 0, false},
		{"other topic", `{"topic":"tickers.ETHUSDT","data":{"lastPrice":"3000"}}`, 0, false},
		{"delta without price", `{"topic":"tickers.BTCUSDT","type":"delta","data":{"symbol":"BTCUSDT","volume24h":"10"}}`, 0, false},
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

func TestAdapter_PingFrame(t *testing.T) {
	require.JSONEq(t, `{"op":"ping"}`, string(newTestAdapter().PingFrame(domain.MarketSpot)))
}
