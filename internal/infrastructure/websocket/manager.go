package websocket

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
)

// Engine 统一管理所有 venue/market 的连接，每个 ConnectionKey 一个 Supervisor
type Engine struct {
	supervisors []*Supervisor
	byKey       map[domain.ConnectionKey]*Supervisor
}

// Target is one stream to supervise.
type Target struct {
	Descriptor domain.VenueDescriptor
	Market     domain.Market
	Adapter    port.VenueAdapter
}

// NewEngine builds one supervisor per target. Two targets with the same
// ConnectionKey are a configuration error.
func NewEngine(targets []Target, broker Handshaker, bus Publisher, opts Options) (*Engine, error) {
	e := &Engine{byKey: make(map[domain.ConnectionKey]*Supervisor, len(targets))}

	for _, t := range targets {
		if t.Adapter == nil {
			return nil, &domain.ConfigError{Venue: t.Descriptor.Name, Field: "adapter", Reason: "no adapter"}
		}
		if t.Descriptor.Protocol == domain.ProtocolTwoPhaseToken && broker == nil {
			return nil, &domain.ConfigError{Venue: t.Descriptor.Name, Field: "handshake_url", Reason: "no token broker"}
		}
		sv := NewSupervisor(t.Descriptor, t.Market, t.Adapter, broker, bus, opts)
		if _, dup := e.byKey[sv.Key()]; dup {
			return nil, &domain.ConfigError{Venue: t.Descriptor.Name, Field: "name", Reason: fmt.Sprintf("duplicate stream %s", sv.Key())}
		}
		e.byKey[sv.Key()] = sv
		e.supervisors = append(e.supervisors, sv)
	}
	if len(e.supervisors) == 0 {
		return nil, ErrNoStreams
	}
	return e, nil
}

// Run starts every supervisor and blocks until ctx is cancelled and all of
// them reached Closed.
func (e *Engine) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sv := range e.supervisors {
		sv := sv
		g.Go(func() error { return sv.Run(gctx) })
	}
	log.Info().Int("streams", len(e.supervisors)).Msg("✓ engine started")
	err := g.Wait()
	log.Info().Msg("engine stopped")
	return err
}

// Keys lists the supervised keys, sorted.
func (e *Engine) Keys() []domain.ConnectionKey {
	keys := make([]domain.ConnectionKey, 0, len(e.supervisors))
	for _, sv := range e.supervisors {
		keys = append(keys, sv.Key())
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Supervisor 获取指定 key 的 Supervisor
func (e *Engine) Supervisor(key domain.ConnectionKey) (*Supervisor, bool) {
	sv, ok := e.byKey[key]
	return sv, ok
}

// States returns the current state of every stream.
func (e *Engine) States() map[domain.ConnectionKey]domain.ConnectionState {
	out := make(map[domain.ConnectionKey]domain.ConnectionState, len(e.supervisors))
	for _, sv := range e.supervisors {
		out[sv.Key()] = sv.State()
	}
	return out
}
