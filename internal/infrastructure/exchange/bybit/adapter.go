package bybit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles Bybit v5 public tickers (spot and linear).
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueBybit }

type subReq struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

func (a *Adapter) topic(m domain.Market) string {
	return "tickers." + strings.ToUpper(strings.TrimSpace(a.desc.Symbol(m)))
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	if strings.TrimSpace(a.desc.Symbol(m)) == "" {
		return nil, errors.New("bybit symbol empty")
	}
	return exchange.MustMarshal(subReq{Op: "subscribe", Args: []string{a.topic(m)}}), nil
}

// PingFrame: Bybit drops connections without an application ping every 20s.
func (a *Adapter) PingFrame(domain.Market) []byte {
	return []byte(`{"op":"ping"}`)
}

type tickerItem struct {
	Symbol    string         `json:"symbol"`
	LastPrice exchange.Price `json:"lastPrice"`
	Price     exchange.Price `json:"price"`
}

// data can be object OR array
type dataList []tickerItem

func (d *dataList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*d = nil
		return nil
	}
	switch b[0] {
	case '[':
		var arr []tickerItem
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		*d = arr
		return nil
	case '{':
		var one tickerItem
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*d = dataList{one}
		return nil
	default:
		return fmt.Errorf("unexpected data json: %s", string(b))
	}
}

type tickerMsg struct {
	Topic string   `json:"topic"`
	Type  string   `json:"type"`
	Data  dataList `json:"data"`

	Success *bool  `json:"success,omitempty"`
	RetMsg  string `json:"ret_msg,omitempty"`
	Op      string `json:"op,omitempty"`
}

func (a *Adapter) ExtractPrice(m domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg tickerMsg
	if err := f.Unmarshal(&msg); err != nil {
		return 0, false
	}
	// ack / pong
	if msg.Success != nil || !strings.EqualFold(msg.Topic, a.topic(m)) {
		return 0, false
	}
	for _, d := range msg.Data {
		if px, ok := d.LastPrice.Float(); ok {
			return px, true
		}
		if px, ok := d.Price.Float(); ok {
			return px, true
		}
	}
	return 0, false
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
