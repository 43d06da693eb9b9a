package binance

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Binance adapter factory
// 这样避免了在 engine 中硬编码 Binance
func init() {
	pricefeed.Register(exchange.VenueBinance, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
