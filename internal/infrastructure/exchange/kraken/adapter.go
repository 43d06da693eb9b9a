package kraken

import (
	"encoding/json"
	"errors"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles the Kraken v1 public ticker channel.
//
// Data frames are arrays: [channelID, {"c":["<last>","<lot>"],...}, "ticker", "XBT/USD"].
// Events (heartbeat, systemStatus, subscriptionStatus) are objects and never
// carry a price.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueKraken }

type subReq struct {
	Event        string       `json:"event"`
	Pair         []string     `json:"pair"`
	Subscription subscription `json:"subscription"`
}

type subscription struct {
	Name string `json:"name"`
}

type tickerBody struct {
	Close []exchange.Price `json:"c"`
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	pair := strings.TrimSpace(a.desc.Symbol(m))
	if pair == "" {
		return nil, errors.New("kraken pair empty")
	}
	return exchange.MustMarshal(subReq{
		Event:        "subscribe",
		Pair:         []string{pair},
		Subscription: subscription{Name: "ticker"},
	}), nil
}

func (a *Adapter) ExtractPrice(m domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeArray {
		return 0, false
	}
	var parts []json.RawMessage
	if err := f.Unmarshal(&parts); err != nil || len(parts) < 4 {
		return 0, false
	}

	var channel, pair string
	if json.Unmarshal(parts[len(parts)-2], &channel) != nil || channel != "ticker" {
		return 0, false
	}
	if json.Unmarshal(parts[len(parts)-1], &pair) != nil {
		return 0, false
	}
	if want := a.desc.Symbol(m); want != "" && !strings.EqualFold(pair, want) {
		return 0, false
	}

	var body tickerBody
	if err := json.Unmarshal(parts[1], &body); err != nil || len(body.Close) == 0 {
		return 0, false
	}
	return body.Close[0].Float()
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
