package bitget

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Bitget adapter factory
func init() {
	pricefeed.Register(exchange.VenueBitget, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
