package gateio

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the GateIO adapter factory
func init() {
	pricefeed.Register(exchange.VenueGateIO, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
