package okx

import (
	"errors"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

// Adapter handles the OKX v5 public tickers channel.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueOKX }

type subReq struct {
	Op   string   `json:"op"`
	Args []subArg `json:"args"`
}

type subArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

type tickerMsg struct {
	Event string       `json:"event,omitempty"`
	Arg   subArg       `json:"arg"`
	Data  []tickerData `json:"data,omitempty"`
}

type tickerData struct {
	InstID string         `json:"instId"`
	Last   exchange.Price `json:"last"`
	Ts     string         `json:"ts"`
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	instID := strings.TrimSpace(a.desc.Symbol(m))
	if instID == "" {
		return nil, errors.New("okx instId empty")
	}
	return exchange.MustMarshal(subReq{
		Op:   "subscribe",
		Args: []subArg{{Channel: "tickers", InstID: instID}},
	}), nil
}

// PingFrame: OKX closes idle connections after 30s; the server answers "pong".
func (a *Adapter) PingFrame(domain.Market) []byte { return []byte("ping") }

func (a *Adapter) ExtractPrice(_ domain.Market, f port.Frame) (float64, bool) {
	if f.Shape != port.ShapeObject {
		return 0, false
	}
	var msg tickerMsg
	if err := f.Unmarshal(&msg); err != nil {
		return 0, false
	}
	// Only process data messages with ticker info
	if msg.Event != "" || msg.Arg.Channel != "tickers" || len(msg.Data) == 0 {
		return 0, false
	}
	return msg.Data[0].Last.Float()
}

func (a *Adapter) LivenessReply(port.Frame) ([]byte, bool) { return nil, false }
