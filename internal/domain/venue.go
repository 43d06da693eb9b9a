package domain

import (
	"fmt"
	"strings"
	"time"
)

// ProtocolKind selects the frame decoding and connection bootstrap strategy.
type ProtocolKind int

const (
	ProtocolPlainJSON ProtocolKind = iota + 1
	ProtocolJSONRPC
	ProtocolBinaryGzipJSON
	ProtocolTwoPhaseToken
)

func (p ProtocolKind) String() string {
	switch p {
	case ProtocolPlainJSON:
		return "plain_json"
	case ProtocolJSONRPC:
		return "jsonrpc"
	case ProtocolBinaryGzipJSON:
		return "binary_gzip_json"
	case ProtocolTwoPhaseToken:
		return "two_phase_token"
	default:
		return fmt.Sprintf("protocol(%d)", int(p))
	}
}

// ParseProtocolKind maps the config spelling to a ProtocolKind.
func ParseProtocolKind(s string) (ProtocolKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain_json", "plainjson", "json":
		return ProtocolPlainJSON, nil
	case "jsonrpc", "json_rpc":
		return ProtocolJSONRPC, nil
	case "binary_gzip_json", "gzip", "gzip_json":
		return ProtocolBinaryGzipJSON, nil
	case "two_phase_token", "token":
		return ProtocolTwoPhaseToken, nil
	default:
		return 0, fmt.Errorf("unknown protocol kind %q", s)
	}
}

// ExpirationLayout is the date format of contract expiration metadata.
const ExpirationLayout = "2006-01-02"

const symbolPlaceholder = "{symbol}"

// VenueDescriptor is the static description of one venue. Immutable once
// the catalog is loaded.
type VenueDescriptor struct {
	Name     string
	Protocol ProtocolKind

	// Adapter names the adapter family; empty means Name.
	Adapter string

	SpotEndpointTemplate    string
	FuturesEndpointTemplate string
	SpotSymbol              string
	FuturesSymbol           string

	// Only TwoPhaseToken venues use these; the stream endpoint comes from the
	// handshake response.
	HandshakeURL        string
	FuturesHandshakeURL string

	ExpirationDate    *time.Time
	KeepAliveInterval time.Duration
}

// Validate checks the fields required by the declared protocol kind.
func (d VenueDescriptor) Validate() error {
	fail := func(field, reason string) error {
		return &ConfigError{Venue: d.Name, Field: field, Reason: reason}
	}

	if strings.TrimSpace(d.Name) == "" {
		return fail("name", "empty")
	}
	switch d.Protocol {
	case ProtocolPlainJSON, ProtocolJSONRPC, ProtocolBinaryGzipJSON:
		if strings.TrimSpace(d.SpotEndpointTemplate) == "" {
			return fail("spot_url", "empty")
		}
		if err := checkTemplate(d.SpotEndpointTemplate, d.SpotSymbol); err != nil {
			return fail("spot_url", err.Error())
		}
		if d.FuturesEndpointTemplate != "" {
			if err := checkTemplate(d.FuturesEndpointTemplate, d.FuturesSymbol); err != nil {
				return fail("futures_url", err.Error())
			}
		}
	case ProtocolTwoPhaseToken:
		if strings.TrimSpace(d.HandshakeURL) == "" {
			return fail("handshake_url", "required for two_phase_token venues")
		}
		if strings.TrimSpace(d.SpotSymbol) == "" {
			return fail("spot_symbol", "empty")
		}
	default:
		return fail("protocol", fmt.Sprintf("unknown protocol kind %d", int(d.Protocol)))
	}
	if d.KeepAliveInterval < 0 {
		return fail("keepalive_interval", "negative")
	}
	return nil
}

func checkTemplate(tmpl, symbol string) error {
	if strings.Contains(tmpl, symbolPlaceholder) && strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("template %q needs a symbol", tmpl)
	}
	return nil
}

// AdapterName is the registry key of the venue's adapter family.
func (d VenueDescriptor) AdapterName() string {
	if d.Adapter != "" {
		return strings.ToLower(d.Adapter)
	}
	return strings.ToLower(d.Name)
}

// Markets lists the markets this venue streams.
func (d VenueDescriptor) Markets() []Market {
	markets := []Market{MarketSpot}
	if d.Protocol == ProtocolTwoPhaseToken {
		if d.FuturesHandshakeURL != "" {
			markets = append(markets, MarketFutures)
		}
		return markets
	}
	if d.FuturesEndpointTemplate != "" {
		markets = append(markets, MarketFutures)
	}
	return markets
}

// Symbol returns the venue-native instrument symbol for m.
func (d VenueDescriptor) Symbol(m Market) string {
	if m == MarketFutures && d.FuturesSymbol != "" {
		return d.FuturesSymbol
	}
	return d.SpotSymbol
}

// Endpoint expands the stream URL template for m. Empty for TwoPhaseToken
// venues and for markets the venue does not serve.
func (d VenueDescriptor) Endpoint(m Market) string {
	tmpl := d.SpotEndpointTemplate
	if m == MarketFutures {
		tmpl = d.FuturesEndpointTemplate
	}
	if tmpl == "" || d.Protocol == ProtocolTwoPhaseToken {
		return ""
	}
	return strings.ReplaceAll(tmpl, symbolPlaceholder, d.Symbol(m))
}

// Handshake returns the REST handshake URL for m, or "".
func (d VenueDescriptor) Handshake(m Market) string {
	if d.Protocol != ProtocolTwoPhaseToken {
		return ""
	}
	if m == MarketFutures {
		return d.FuturesHandshakeURL
	}
	return d.HandshakeURL
}

// Expiration is the contract expiration for m; spot never expires.
func (d VenueDescriptor) Expiration(m Market) *time.Time {
	if m != MarketFutures {
		return nil
	}
	return d.ExpirationDate
}
