package port

import (
	"context"
	"time"

	"btcfeed/internal/domain"
)

// VenueAdapter encapsulates one venue family's subscription and
// price-extraction rules.
type VenueAdapter interface {
	Name() string

	// BuildSubscription returns the frame to send once the transport is open,
	// or nil when the connection URL already implies the channel. The frame is
	// byte-identical across calls for the same market.
	BuildSubscription(m domain.Market) ([]byte, error)

	// ExtractPrice returns false for heartbeats, acks and any frame that does
	// not match the venue's price-bearing shape.
	ExtractPrice(m domain.Market, f Frame) (float64, bool)

	// LivenessReply recognizes a server-initiated ping and returns the exact
	// reply to send on the same connection.
	LivenessReply(f Frame) ([]byte, bool)
}

// Pinger is implemented by adapters whose venue needs client-initiated
// application-level keep-alive frames.
type Pinger interface {
	PingFrame(m domain.Market) []byte
}

// Quote is what downstream consumers see for a venue/market.
type Quote struct {
	Price          float64
	Timestamp      time.Time
	ExpirationDate *time.Time
}

// PriceFeed is the outbound contract of the engine.
type PriceFeed interface {
	Subscribe(ctx context.Context, venue string, market domain.Market) <-chan Quote
	GetLatest(venue string, market domain.Market) (Quote, bool)
}
