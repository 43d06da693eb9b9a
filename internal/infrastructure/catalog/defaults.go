package catalog

import (
	"time"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Defaults is the built-in venue table. Config entries override it field by
// field.
func Defaults() []domain.VenueDescriptor {
	binanceExpiry := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	return []domain.VenueDescriptor{
		{
			Name:                    exchange.VenueBinance,
			Protocol:                domain.ProtocolPlainJSON,
			SpotEndpointTemplate:    "wss://stream.binance.com:9443/ws/{symbol}@trade",
			FuturesEndpointTemplate: "wss://fstream.binance.com/ws/{symbol}@markPrice",
			SpotSymbol:              "btcusdt",
			FuturesSymbol:           "btcusdt_250630",
			ExpirationDate:          &binanceExpiry,
		},
		{
			Name:                    exchange.VenueBybit,
			Protocol:                domain.ProtocolPlainJSON,
			SpotEndpointTemplate:    "wss://stream.bybit.com/v5/public/spot",
			FuturesEndpointTemplate: "wss://stream.bybit.com/v5/public/linear",
			SpotSymbol:              "BTCUSDT",
			FuturesSymbol:           "BTCUSDT",
			KeepAliveInterval:       20 * time.Second,
		},
		{
			Name:                 exchange.VenueKraken,
			Protocol:             domain.ProtocolPlainJSON,
			SpotEndpointTemplate: "wss://ws.kraken.com",
			SpotSymbol:           "XBT/USD",
		},
		{
			Name:                 exchange.VenueCoinbase,
			Protocol:             domain.ProtocolPlainJSON,
			SpotEndpointTemplate: "wss://ws-feed.exchange.coinbase.com",
			SpotSymbol:           "BTC-USD",
		},
		{
			Name:                 exchange.VenueBitfinex,
			Protocol:             domain.ProtocolPlainJSON,
			SpotEndpointTemplate: "wss://api-pub.bitfinex.com/ws/2",
			SpotSymbol:           "tBTCUSD",
		},
		{
			Name:                    exchange.VenueOKX,
			Protocol:                domain.ProtocolPlainJSON,
			SpotEndpointTemplate:    "wss://ws.okx.com:8443/ws/v5/public",
			FuturesEndpointTemplate: "wss://ws.okx.com:8443/ws/v5/public",
			SpotSymbol:              "BTC-USDT",
			FuturesSymbol:           "BTC-USDT-SWAP",
			KeepAliveInterval:       20 * time.Second,
		},
		{
			Name:                 exchange.VenueHuobi,
			Protocol:             domain.ProtocolBinaryGzipJSON,
			SpotEndpointTemplate: "wss://api.huobi.pro/ws",
			SpotSymbol:           "btcusdt",
		},
		{
			Name:              exchange.VenueKuCoin,
			Protocol:          domain.ProtocolTwoPhaseToken,
			HandshakeURL:      "https://api.kucoin.com/api/v1/bullet-public",
			SpotSymbol:        "BTC-USDT",
			FuturesSymbol:     "XBTUSDTM",
			KeepAliveInterval: 25 * time.Second,
		},
		{
			Name:                 exchange.VenueGateIO,
			Protocol:             domain.ProtocolPlainJSON,
			SpotEndpointTemplate: "wss://api.gateio.ws/ws/v4/",
			SpotSymbol:           "BTC_USDT",
		},
		{
			Name:                    exchange.VenueDeribit,
			Protocol:                domain.ProtocolJSONRPC,
			SpotEndpointTemplate:    "wss://www.deribit.com/ws/api/v2",
			FuturesEndpointTemplate: "wss://www.deribit.com/ws/api/v2",
			SpotSymbol:              "BTC_USDC",
			FuturesSymbol:           "BTC-PERPETUAL",
		},
		{
			Name:                    exchange.VenueBitget,
			Protocol:                domain.ProtocolPlainJSON,
			SpotEndpointTemplate:    "wss://ws.bitget.com/v2/ws/public",
			FuturesEndpointTemplate: "wss://ws.bitget.com/v2/ws/public",
			SpotSymbol:              "BTCUSDT",
			FuturesSymbol:           "BTCUSDT",
			KeepAliveInterval:       30 * time.Second,
		},
	}
}
