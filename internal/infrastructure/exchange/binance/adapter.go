package binance

import (
	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles Binance raw streams. The stream name is part of the URL
// (btcusdt@trade, btcusdt_250630@markPrice), so no subscribe frame is sent.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueBinance }

func (a *Adapter) BuildSubscription(domain.Market) ([]byte, error) { return nil, nil }

// trade and markPriceUpdate events both carry the price in "p".
type streamMsg struct {
	Event  string         `json:"e"`
	Symbol string         `json:"s"`
	Price  exchange.Price `json:"p"`
}

func (a *Adapter) ExtractPrice(_ domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg streamMsg
	if err := f.Unmarshal(&msg); err != nil {
		return 0, false
	}
	return msg.Price.Float()
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
