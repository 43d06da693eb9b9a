package pricebus

import (
	"context"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
)

// Feed is the outbound view of a Bus keyed by venue name and market.
type Feed struct {
	bus *Bus
}

var _ port.PriceFeed = (*Feed)(nil)

func NewFeed(bus *Bus) *Feed {
	return &Feed{bus: bus}
}

func quoteOf(u domain.PriceUpdate) port.Quote {
	return port.Quote{Price: u.Price, Timestamp: u.ReceivedAt, ExpirationDate: u.ExpirationDate}
}

func key(venue string, market domain.Market) domain.ConnectionKey {
	return domain.NewKey(strings.ToLower(venue), market)
}

func (f *Feed) Subscribe(ctx context.Context, venue string, market domain.Market) <-chan port.Quote {
	in := f.bus.Subscribe(ctx, key(venue, market))
	out := make(chan port.Quote, 1)

	go func() {
		defer close(out)
		for u := range in {
			q := quoteOf(u)
			select {
			case out <- q:
				continue
			default:
			}
			// keep only the newest quote for a slow reader
			select {
			case <-out:
			default:
			}
			out <- q
		}
	}()
	return out
}

func (f *Feed) GetLatest(venue string, market domain.Market) (port.Quote, bool) {
	u, ok := f.bus.GetLatest(key(venue, market))
	if !ok {
		return port.Quote{}, false
	}
	return quoteOf(u), true
}
