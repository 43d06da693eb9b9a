package okx

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the OKX adapter factory
func init() {
	pricefeed.Register(exchange.VenueOKX, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
