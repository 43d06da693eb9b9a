package huobi

import (
	"encoding/json"
	"errors"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

const subID = "btcfeed"

// Adapter handles Huobi (HTX) market trade details. Frames arrive gzip
// compressed; the codec has already inflated them.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueHuobi }

type subReq struct {
	Sub string `json:"sub"`
	ID  string `json:"id"`
}

type tradeMsg struct {
	Ch   string `json:"ch"`
	Tick struct {
		Data []struct {
			Price exchange.Price `json:"price"`
		} `json:"data"`
	} `json:"tick"`
}

type pingMsg struct {
	Ping json.RawMessage `json:"ping"`
}

func (a *Adapter) symbol(m domain.Market) string {
	return strings.ToLower(strings.TrimSpace(a.desc.Symbol(m)))
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	sym := a.symbol(m)
	if sym == "" {
		return nil, errors.New("huobi symbol empty")
	}
	return exchange.MustMarshal(subReq{Sub: "market." + sym + ".trade.detail", ID: subID}), nil
}

func (a *Adapter) ExtractPrice(m domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg tradeMsg
	if err := f.Unmarshal(&msg); err != nil || msg.Ch == "" {
		return 0, false
	}
	if !strings.Contains(strings.ToLower(msg.Ch), a.symbol(m)) {
		return 0, false
	}
	if len(msg.Tick.Data) == 0 {
		return 0, false
	}
	return msg.Tick.Data[0].Price.Float()
}

// LivenessReply answers {"ping":n} with {"pong":n}, echoing n verbatim.
func (a *Adapter) LivenessReply(f port.Frame) ([]byte, bool) {
	if f.Shape != port.ShapeObject {
		return nil, false
	}
	var msg pingMsg
	if err := f.Unmarshal(&msg); err != nil || len(msg.Ping) == 0 || string(msg.Ping) == "null" {
		return nil, false
	}
	reply := make([]byte, 0, len(msg.Ping)+10)
	reply = append(reply, `{"pong":`...)
	reply = append(reply, msg.Ping...)
	reply = append(reply, '}')
	return reply, true
}
