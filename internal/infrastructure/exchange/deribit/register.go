package deribit

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Deribit adapter factory
func init() {
	pricefeed.Register(exchange.VenueDeribit, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
