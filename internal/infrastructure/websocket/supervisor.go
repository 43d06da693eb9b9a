package websocket

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/codec"
	"btcfeed/internal/infrastructure/handshake"
	"btcfeed/internal/infrastructure/metrics"
)

// Handshaker exchanges a REST handshake URL for stream credentials.
type Handshaker interface {
	Acquire(ctx context.Context, handshakeURL string) (handshake.Grant, error)
}

// Publisher receives every extracted price.
type Publisher interface {
	Publish(u domain.PriceUpdate) bool
}

// Options tunes every supervisor of an engine.
type Options struct {
	DialTimeout       time.Duration
	ReadTimeout       time.Duration
	BackoffMin        time.Duration
	BackoffMax        time.Duration
	KeepAliveInterval time.Duration

	Dialer *websocket.Dialer

	// OnStateChange is called synchronously on every transition.
	OnStateChange func(key domain.ConnectionKey, from, to domain.ConnectionState)
}

func (o Options) withDefaults() Options {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.BackoffMin <= 0 {
		o.BackoffMin = 500 * time.Millisecond
	}
	if o.BackoffMax <= 0 {
		o.BackoffMax = 30 * time.Second
	}
	if o.KeepAliveInterval <= 0 {
		o.KeepAliveInterval = 25 * time.Second
	}
	if o.Dialer == nil {
		o.Dialer = websocket.DefaultDialer
	}
	return o
}

var errClosedByPeer = errors.New("connection closed by peer")

// Supervisor owns the connection of one ConnectionKey: handshake, dial,
// subscribe, read, keep-alive and reconnect with backoff.
type Supervisor struct {
	key     domain.ConnectionKey
	desc    domain.VenueDescriptor
	adapter port.VenueAdapter
	decoder codec.Decoder
	broker  Handshaker
	bus     Publisher
	opts    Options

	state    atomic.Int32
	attempts atomic.Int64
	failures atomic.Int64
	// set once the current session published a price
	healthy atomic.Bool
	log     zerolog.Logger
}

func NewSupervisor(desc domain.VenueDescriptor, market domain.Market, adapter port.VenueAdapter, broker Handshaker, bus Publisher, opts Options) *Supervisor {
	key := domain.NewKey(desc.Name, market)
	s := &Supervisor{
		key:     key,
		desc:    desc,
		adapter: adapter,
		decoder: codec.ForProtocol(desc.Protocol),
		broker:  broker,
		bus:     bus,
		opts:    opts.withDefaults(),
		log: log.With().
			Str("venue", desc.Name).
			Str("market", market.String()).
			Logger(),
	}
	s.state.Store(int32(domain.StateDisconnected))
	return s
}

func (s *Supervisor) Key() domain.ConnectionKey { return s.key }

// State is safe to call from any goroutine.
func (s *Supervisor) State() domain.ConnectionState {
	return domain.ConnectionState(s.state.Load())
}

// Attempts counts connection attempts so far.
func (s *Supervisor) Attempts() int64 { return s.attempts.Load() }

// ConsecutiveFailures counts sessions since the last one that published a
// price. The backoff delay grows with it.
func (s *Supervisor) ConsecutiveFailures() int64 { return s.failures.Load() }

func (s *Supervisor) setState(to domain.ConnectionState) {
	from := domain.ConnectionState(s.state.Swap(int32(to)))
	if from == to {
		return
	}
	metrics.SetState(s.key, to)
	s.log.Debug().Str("from", from.String()).Str("state", to.String()).Msg("state change")
	if s.opts.OnStateChange != nil {
		s.opts.OnStateChange(s.key, from, to)
	}
}

// Run keeps the stream alive until ctx is cancelled. It always returns nil
// after moving to Closed; per-connection failures only cause a reconnect.
func (s *Supervisor) Run(ctx context.Context) error {
	bo := &backoff.Backoff{
		Min:    s.opts.BackoffMin,
		Max:    s.opts.BackoffMax,
		Factor: 2,
		Jitter: true,
	}
	defer s.setState(domain.StateClosed)

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		// 只有真正收到过价格的 session 才重置 backoff，
		// 连上就被断开（订阅被拒、限流、封 IP）时延迟继续增长
		if s.healthy.Load() {
			bo.Reset()
		}

		delay := bo.Duration()
		s.failures.Store(int64(bo.Attempt()))
		s.setState(domain.StateBackoff)
		metrics.Reconnect(s.key)
		s.log.Warn().
			Err(err).
			Int64("attempt", s.attempts.Load()).
			Int64("failures", s.failures.Load()).
			Int64("delay_ms", delay.Milliseconds()).
			Msg("ws disconnected, reconnecting")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// session runs one connection attempt.
func (s *Supervisor) session(ctx context.Context) error {
	s.attempts.Add(1)
	s.healthy.Store(false)
	s.setState(domain.StateConnecting)

	url := s.desc.Endpoint(s.key.Market)
	interval := s.desc.KeepAliveInterval
	var pingTimeout time.Duration

	if s.desc.Protocol == domain.ProtocolTwoPhaseToken {
		s.setState(domain.StateHandshaking)
		grant, err := s.broker.Acquire(ctx, s.desc.Handshake(s.key.Market))
		if err != nil {
			return err
		}
		url = grant.StreamURL(uuid.NewString())
		if interval <= 0 && grant.PingInterval > 0 {
			interval = grant.PingInterval
		}
		pingTimeout = grant.PingTimeout
		s.setState(domain.StateConnecting)
	}
	if interval <= 0 {
		interval = s.opts.KeepAliveInterval
	}

	// 服务端给了 pingTimeout 时，一个 ping 周期加超时内没有任何帧就算断线
	readTimeout := s.opts.ReadTimeout
	if pingTimeout > 0 && interval+pingTimeout < readTimeout {
		readTimeout = interval + pingTimeout
	}

	s.log.Info().Str("url", redact(url)).Msg("ws connecting")
	tr, err := dial(ctx, s.opts.Dialer, url, s.opts.DialTimeout)
	if err != nil {
		return &domain.TransportError{Op: "dial", Key: s.key, Err: err}
	}
	defer tr.close()

	s.setState(domain.StateSubscriptionPending)
	sub, err := s.adapter.BuildSubscription(s.key.Market)
	if err != nil {
		return fmt.Errorf("build subscription: %w", err)
	}
	if sub != nil {
		if err := tr.writeText(sub); err != nil {
			return &domain.TransportError{Op: "write", Key: s.key, Err: err}
		}
	}

	s.setState(domain.StateStreaming)
	s.log.Info().Msg("ws connected & subscribed")

	ka := newKeepAlive(interval, s.keepAliveSender(tr))
	ka.start()
	defer ka.stop()

	return s.readLoop(ctx, tr, ka, readTimeout)
}

// keepAliveSender prefers the venue's application ping and falls back to a
// websocket ping control frame.
func (s *Supervisor) keepAliveSender(tr *transport) func() error {
	pinger, ok := s.adapter.(port.Pinger)
	if !ok {
		return tr.ping
	}
	return func() error {
		return tr.writeText(pinger.PingFrame(s.key.Market))
	}
}

func (s *Supervisor) readLoop(ctx context.Context, tr *transport, ka *keepAlive, readTimeout time.Duration) error {
	conn := tr.conn

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					err = fmt.Errorf("%w: %v", errClosedByPeer, err)
				}
				errCh <- &domain.TransportError{Op: "read", Key: s.key, Err: err}
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			s.handleFrame(tr, b)
		}
	}()

	select {
	case <-ctx.Done():
		tr.close()
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	case err := <-ka.errs():
		tr.close()
		<-errCh
		return &domain.TransportError{Op: "write", Key: s.key, Err: err}
	}
}

// handleFrame runs decode, liveness reply, extract and publish for one
// frame. A panic in adapter code only drops the frame.
func (s *Supervisor) handleFrame(tr *transport, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			metrics.Frame(s.key, metrics.OutcomeDecodeError)
			s.log.Error().Interface("panic", r).Msg("adapter panicked, frame dropped")
		}
	}()

	f, err := s.decoder.Decode(payload)
	if err != nil {
		metrics.Frame(s.key, metrics.OutcomeDecodeError)
		s.log.Debug().Err(err).Msg("frame dropped")
		return
	}

	if reply, ok := s.livenessReply(f); ok {
		metrics.Frame(s.key, metrics.OutcomeLiveness)
		if err := tr.writeText(reply); err != nil {
			s.log.Warn().Err(err).Msg("liveness reply failed")
		}
		return
	}

	price, err := s.extract(f)
	if errors.Is(err, domain.ErrExtractionMiss) {
		metrics.Frame(s.key, metrics.OutcomeMiss)
		return
	}

	u := domain.PriceUpdate{
		Key:            s.key,
		Price:          price,
		ReceivedAt:     time.Now(),
		ExpirationDate: s.desc.Expiration(s.key.Market),
	}
	if s.bus.Publish(u) {
		s.healthy.Store(true)
		metrics.Frame(s.key, metrics.OutcomePrice)
		metrics.Price(u)
	}
}

// extract returns ErrExtractionMiss for frames without a usable price.
func (s *Supervisor) extract(f port.Frame) (float64, error) {
	price, ok := s.adapter.ExtractPrice(s.key.Market, f)
	if !ok || !(price > 0) {
		return 0, domain.ErrExtractionMiss
	}
	return price, nil
}

func (s *Supervisor) livenessReply(f port.Frame) ([]byte, bool) {
	if reply, ok := s.adapter.LivenessReply(f); ok {
		return reply, true
	}
	// bare text "ping"
	if f.Shape == port.ShapeControl && f.Control == "ping" {
		return []byte("pong"), true
	}
	return nil, false
}

// redact hides the handshake token in logs.
func redact(url string) string {
	if base, _, ok := strings.Cut(url, "?"); ok {
		return base + "?token=***"
	}
	return url
}
