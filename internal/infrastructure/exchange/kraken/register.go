package kraken

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the Kraken adapter factory
func init() {
	pricefeed.Register(exchange.VenueKraken, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
