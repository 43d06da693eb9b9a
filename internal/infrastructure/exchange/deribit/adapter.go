package deribit

import (
	"errors"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/exchange"
)

const (
	subscribeID = 42
	testID      = 43
)

// Adapter handles Deribit ticker subscriptions over JSON-RPC 2.0.
type Adapter struct {
	desc domain.VenueDescriptor
}

func NewAdapter(d domain.VenueDescriptor) *Adapter {
	return &Adapter{desc: d}
}

func (a *Adapter) Name() string { return exchange.VenueDeribit }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type subParams struct {
	Channels []string `json:"channels"`
}

type subscriptionParams struct {
	Channel string `json:"channel"`
	Data    struct {
		InstrumentName string         `json:"instrument_name"`
		LastPrice      exchange.Price `json:"last_price"`
		MarkPrice      exchange.Price `json:"mark_price"`
	} `json:"data"`
}

type heartbeatParams struct {
	Type string `json:"type"`
}

func (a *Adapter) channel(m domain.Market) string {
	return "ticker." + strings.TrimSpace(a.desc.Symbol(m)) + ".100ms"
}

func (a *Adapter) BuildSubscription(m domain.Market) ([]byte, error) {
	if strings.TrimSpace(a.desc.Symbol(m)) == "" {
		return nil, errors.New("deribit instrument empty")
	}
	return exchange.MustMarshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      subscribeID,
		Method:  "public/subscribe",
		Params:  subParams{Channels: []string{a.channel(m)}},
	}), nil
}

func testFrame() []byte {
	return exchange.MustMarshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      testID,
		Method:  "public/test",
		Params:  struct{}{},
	})
}

// PingFrame keeps the session busy; Deribit closes sockets idle for too long.
func (a *Adapter) PingFrame(domain.Market) []byte { return testFrame() }

func (a *Adapter) ExtractPrice(m domain.Market, f port.Frame) (float64, bool) {
	if f.Method != "subscription" {
		return 0, false
	}
	var p subscriptionParams
	if err := f.UnmarshalParams(&p); err != nil {
		return 0, false
	}
	if p.Channel != a.channel(m) {
		return 0, false
	}
	if m == domain.MarketFutures {
		return p.Data.MarkPrice.Float()
	}
	return p.Data.LastPrice.Float()
}

// LivenessReply answers heartbeat test_request with public/test.
func (a *Adapter) LivenessReply(f port.Frame) ([]byte, bool) {
	if f.Method != "heartbeat" {
		return nil, false
	}
	var p heartbeatParams
	if err := f.UnmarshalParams(&p); err != nil || p.Type != "test_request" {
		return nil, false
	}
	return testFrame(), true
}
