package kucoin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles KuCoin public tickers. The stream URL comes from the
// bullet-public handshake, so the adapter only deals with frames.
type Adapter struct {
	desc domain.VenueDescriptor

	// subscribe id is fixed per adapter so every reconnect sends the same frame
	subID string
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{
		desc:  d,
		subID: strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
}

func (a *Adapter) Name() string { return exchange.VenueKuCoin }

type subReq struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Topic          string `json:"topic"`
	PrivateChannel bool   `json:"privateChannel"`
	Response       bool   `json:"response"`
}

type pingReq struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type tickerMsg struct {
	Type    string `json:"type"`
	Topic   string `json:"topic"`
	Subject string `json:"subject"`
	Data    struct {
		Price exchange.Price `json:"price"`
	} `json:"data"`
}

func (a *Adapter) symbol(m domain.Market) string {
	return strings.ToUpper(strings.TrimSpace(a.desc.Symbol(m)))
}

func topicPrefix(m domain.Market) string {
	if m == domain.MarketFutures {
		return "/contractMarket/ticker:"
	}
	return "/market/ticker:"
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	sym := a.symbol(m)
	if sym == "" {
		return nil, errors.New("kucoin symbol empty")
	}
	return exchange.MustMarshal(subReq{
		ID:             a.subID,
		Type:           "subscribe",
		Topic:          topicPrefix(m) + sym,
		PrivateChannel: false,
		Response:       true,
	}), nil
}

// PingFrame: KuCoin disconnects clients silent for longer than pingTimeout.
func (a *Adapter) PingFrame(domain.Market) []byte {
	return exchange.MustMarshal(pingReq{ID: uuid.NewString(), Type: "ping"})
}

func (a *Adapter) ExtractPrice(m domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg tickerMsg
	if err := f.Unmarshal(&msg); err != nil {
		return 0, false
	}
	// welcome / ack / pong
	if msg.Type != "message" {
		return 0, false
	}
	if !strings.Contains(msg.Topic, "ticker:"+a.symbol(m)) {
		return 0, false
	}
	return msg.Data.Price.Float()
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
