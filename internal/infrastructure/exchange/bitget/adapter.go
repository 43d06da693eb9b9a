package bitget

import (
	"errors"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles the Bitget v2 public ticker channel.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueBitget }

type subReq struct {
	Op   string   `json:"op"`
	Args []subArg `json:"args"`
}

type subArg struct {
	InstType string `json:"instType"`
	Channel  string `json:"channel"`
	InstID   string `json:"instId"`
}

type tickerMsg struct {
	Action string       `json:"action"`
	Arg    subArg       `json:"arg"`
	Data   []tickerData `json:"data,omitempty"`
}

type tickerData struct {
	InstID string         `json:"instId"`
	LastPr exchange.Price `json:"lastPr"`
}

func instType(m domain.Market) string {
	if m == domain.MarketFutures {
		return "USDT-FUTURES"
	}
	return "SPOT"
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	instID := strings.ToUpper(strings.TrimSpace(a.desc.Symbol(m)))
	if instID == "" {
		return nil, errors.New("bitget instId empty")
	}
	return exchange.MustMarshal(subReq{
		Op:   "subscribe",
		Args: []subArg{{InstType: instType(m), Channel: "ticker", InstID: instID}},
	}), nil
}

func (a *Adapter) PingFrame(domain.Market) []byte { return []byte("ping") }

func (a *Adapter) ExtractPrice(_ domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg tickerMsg
	if err := f.Unmarshal(&msg); err != nil {
		return 0, false
	}
	if msg.Action != "snapshot" && msg.Action != "update" {
		return 0, false
	}
	if msg.Arg.Channel != "ticker" || len(msg.Data) == 0 {
		return 0, false
	}
	return msg.Data[0].LastPr.Float()
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
