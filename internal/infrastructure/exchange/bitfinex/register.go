package bitfinex

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Bitfinex adapter factory
func init() {
	pricefeed.Register(exchange.VenueBitfinex, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
