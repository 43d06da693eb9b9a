package coinbase

import (
	"errors"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles the Coinbase Exchange ticker channel.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueCoinbase }

type subReq struct {
	Type       string   `json:"type"`
	ProductIDs []string `json:"product_ids"`
	Channels   []string `json:"channels"`
}

type tickerMsg struct {
	Type      string         `json:"type"`
	ProductID string         `json:"product_id"`
	Price     exchange.Price `json:"price"`
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	product := strings.TrimSpace(a.desc.Symbol(m))
	if product == "" {
		return nil, errors.New("coinbase product id empty")
	}
	return exchange.MustMarshal(subReq{
		Type:       "subscribe",
		ProductIDs: []string{product},
		Channels:   []string{"ticker"},
	}), nil
}

func (a *Adapter) ExtractPrice(m domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg tickerMsg
	if err := f.Unmarshal(&msg); err != nil || msg.Type != "ticker" {
		return 0, false
	}
	if want := a.desc.Symbol(m); msg.ProductID != "" && !strings.EqualFold(msg.ProductID, want) {
		return 0, false
	}
	return msg.Price.Float()
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
