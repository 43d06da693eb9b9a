package gateio

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles Gate.io v4 spot.tickers and futures.tickers.
type Adapter struct {
	desc domain.VenueDescriptor

	// subscribe "time" is pinned at construction; resubscription frames are
	// byte-identical.
	subTime int64
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d, subTime: time.Now().Unix()}
}

func (a *Adapter) Name() string { return exchange.VenueGateIO }

type subReq struct {
	Time    int64    `json:"time"`
	Channel string   `json:"channel"`
	Event   string   `json:"event"`
	Payload []string `json:"payload,omitempty"`
}

type tickerItem struct {
	CurrencyPair string         `json:"currency_pair"`
	Contract     string         `json:"contract"`
	Last         exchange.Price `json:"last"`
	MarkPrice    exchange.Price `json:"mark_price"`
}

type updateMsg struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Result  json.RawMessage `json:"result"`
}

func channelPrefix(m domain.Market) string {
	if m == domain.MarketFutures {
		return "futures"
	}
	return "spot"
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	pair := strings.ToUpper(strings.TrimSpace(a.desc.Symbol(m)))
	if pair == "" {
		return nil, errors.New("gateio pair empty")
	}
	return exchange.MustMarshal(subReq{
		Time:    a.subTime,
		Channel: channelPrefix(m) + ".tickers",
		Event:   "subscribe",
		Payload: []string{pair},
	}), nil
}

func (a *Adapter) PingFrame(m domain.Market) []byte {
	return exchange.MustMarshal(subReq{Time: time.Now().Unix(), Channel: channelPrefix(m) + ".ping"})
}

func (a *Adapter) ExtractPrice(m domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg updateMsg
	if err := f.Unmarshal(&msg); err != nil {
		return 0, false
	}
	if msg.Channel != channelPrefix(m)+".tickers" || msg.Event != "update" {
		return 0, false
	}

	items, ok := decodeResult(msg.Result)
	if !ok || len(items) == 0 {
		return 0, false
	}
	it := items[0]
	if m == domain.MarketFutures {
		if px, ok := it.MarkPrice.Float(); ok {
			return px, true
		}
	}
	return it.Last.Float()
}

// result can be object OR array
func decodeResult(raw json.RawMessage) ([]tickerItem, bool) {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 {
		return nil, false
	}
	switch b[0] {
	case '[':
		var arr []tickerItem
		if err := json.Unmarshal(b, &arr); err != nil {
			return nil, false
		}
		return arr, true
	case '{':
		var one tickerItem
		if err := json.Unmarshal(b, &one); err != nil {
			return nil, false
		}
		return []tickerItem{one}, true
	default:
		return nil, false
	}
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
