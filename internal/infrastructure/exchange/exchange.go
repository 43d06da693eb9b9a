// Package exchange holds helpers shared by the per-venue adapter packages.
package exchange

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Venue names as used in config keys and ConnectionKeys.
const (
	VenueBinance  = "binance"
	VenueBybit    = "bybit"
	VenueKraken   = "kraken"
	VenueCoinbase = "coinbase"
	VenueBitfinex = "bitfinex"
	VenueOKX      = "okx"
	VenueHuobi    = "huobi"
	VenueKuCoin   = "kucoin"
	VenueGateIO   = "gateio"
	VenueDeribit  = "deribit"
	VenueBitget   = "bitget"
)

// Price is a JSON price field. Venues encode prices as strings ("64123.45")
// or as bare numbers; both decode without float rounding on the way in.
type Price struct {
	Value decimal.Decimal
	Valid bool
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = Price{}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return err
	}
	p.Value = d
	p.Valid = true
	return nil
}

// Float returns the price if it is present and strictly positive. A zero or
// negative price is never published.
func (p Price) Float() (float64, bool) {
	if !p.Valid || !p.Value.IsPositive() {
		return 0, false
	}
	return p.Value.InexactFloat64(), true
}

// ParsePrice decodes a single raw JSON price value.
func ParsePrice(raw json.RawMessage) (float64, bool) {
	var p Price
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, false
	}
	return p.Float()
}

// MustMarshal marshals outbound frames built from static Go values.
func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
