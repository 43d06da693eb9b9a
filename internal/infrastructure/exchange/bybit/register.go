package bybit

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Bybit adapter factory
func init() {
	pricefeed.Register(exchange.VenueBybit, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
