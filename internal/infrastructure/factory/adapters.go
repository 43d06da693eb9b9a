package factory

// 各交易所包在 init() 中向 pricefeed 注册 adapter factory，
// 这里统一导入，engine 侧不需要知道具体有哪些交易所。
import (
	_ "btcfeed/internal/infrastructure/exchange/binance"
	_ "btcfeed/internal/infrastructure/exchange/bitfinex"
	_ "btcfeed/internal/infrastructure/exchange/bitget"
	_ "btcfeed/internal/infrastructure/exchange/bybit"
	_ "btcfeed/internal/infrastructure/exchange/coinbase"
	_ "btcfeed/internal/infrastructure/exchange/deribit"
	_ "btcfeed/internal/infrastructure/exchange/gateio"
	_ "btcfeed/internal/infrastructure/exchange/huobi"
	_ "btcfeed/internal/infrastructure/exchange/kraken"
	_ "btcfeed/internal/infrastructure/exchange/kucoin"
	_ "btcfeed/internal/infrastructure/exchange/okx"
)
