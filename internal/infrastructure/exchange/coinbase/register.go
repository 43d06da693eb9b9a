package coinbase

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Coinbase adapter factory
func init() {
	pricefeed.Register(exchange.VenueCoinbase, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
