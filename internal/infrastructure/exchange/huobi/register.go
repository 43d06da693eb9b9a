package huobi

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Huobi adapter factory
func init() {
	pricefeed.Register(exchange.VenueHuobi, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
