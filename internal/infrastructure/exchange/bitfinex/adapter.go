package bitfinex

import (
	"encoding/json"
	"errors"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// lastPriceIndex is LAST_PRICE in the v2 ticker array
// [BID, BID_SIZE, ASK, ASK_SIZE, DAILY_CHANGE, DAILY_CHANGE_RELATIVE, LAST_PRICE, VOLUME, HIGH, LOW].
const lastPriceIndex = 6

// Adapter handles the Bitfinex v2 public ticker channel.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueBitfinex }

type subReq struct {
	Event   string `json:"event"`
	Channel string `json:"channel"`
	Symbol  string `json:"symbol"`
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	symbol := strings.TrimSpace(a.desc.Symbol(m))
	if symbol == "" {
		return nil, errors.New("bitfinex symbol empty")
	}
	return exchange.MustMarshal(subReq{Event: "subscribe", Channel: "ticker", Symbol: symbol}), nil
}

func (a *Adapter) ExtractPrice(_ domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeArray {
		return 0, false
	}
	var parts []json.RawMessage
	if err := f.Unmarshal(&parts); err != nil || len(parts) < 2 {
		return 0, false
	}

	// [chanId, "hb"] heartbeat
	var ticker []json.RawMessage
	if err := json.Unmarshal(parts[1], &ticker); err != nil {
		return 0, false
	}
	if len(ticker) <= lastPriceIndex {
		return 0, false
	}
	return exchange.ParsePrice(ticker[lastPriceIndex])
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
