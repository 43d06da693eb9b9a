package domain

import (
	"fmt"
	"strings"
)

// Market distinguishes immediate-settlement from expiring-contract streams
// of the same underlying pair.
type Market int

const (
	MarketSpot Market = iota
	MarketFutures
)

func (m Market) String() string {
	switch m {
	case MarketSpot:
		return "spot"
	case MarketFutures:
		return "futures"
	default:
		return fmt.Sprintf("market(%d)", int(m))
	}
}

// ParseMarket accepts "spot" and "futures" (case-insensitive).
func ParseMarket(s string) (Market, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spot":
		return MarketSpot, nil
	case "futures", "future", "perp", "perpetual":
		return MarketFutures, nil
	default:
		return 0, fmt.Errorf("unknown market %q", s)
	}
}

// ConnectionKey identifies one logical stream.
type ConnectionKey struct {
	Venue  string
	Market Market
}

func NewKey(venue string, market Market) ConnectionKey {
	return ConnectionKey{Venue: strings.TrimSpace(venue), Market: market}
}

func (k ConnectionKey) String() string {
	return k.Venue + ":" + k.Market.String()
}

// Less orders keys by venue name, then spot before futures.
func (k ConnectionKey) Less(o ConnectionKey) bool {
	if k.Venue != o.Venue {
		return strings.ToLower(k.Venue) < strings.ToLower(o.Venue)
	}
	return k.Market < o.Market
}

// ConnectionState is the lifecycle state of a single supervised connection.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateHandshaking
	StateConnecting
	StateSubscriptionPending
	StateStreaming
	StateBackoff
	StateClosed
)

var stateNames = [...]string{
	StateDisconnected:        "disconnected",
	StateHandshaking:         "handshaking",
	StateConnecting:          "connecting",
	StateSubscriptionPending: "subscription_pending",
	StateStreaming:           "streaming",
	StateBackoff:             "backoff",
	StateClosed:              "closed",
}

func (s ConnectionState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// States lists every state in declaration order.
func States() []ConnectionState {
	return []ConnectionState{
		StateDisconnected,
		StateHandshaking,
		StateConnecting,
		StateSubscriptionPending,
		StateStreaming,
		StateBackoff,
		StateClosed,
	}
}
