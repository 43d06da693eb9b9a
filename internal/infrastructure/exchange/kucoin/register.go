package kucoin

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
	"btcfeed/internal/infrastructure/pricefeed"
)

// init() automatically registers the KuCoin adapter factory
func init() {
	pricefeed.Register(exchange.VenueKuCoin, func(d domain.VenueDescriptor) port.VenueAdapter {
		return NewAdapter(d)
	})
}
