// Package handshake performs the REST token exchange that TwoPhaseToken
// venues require before a stream connection can be opened.
package handshake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/metrics"
)

// successCode is KuCoin's business success code.
const successCode = "200000"

var (
	errEmptyToken    = errors.New("empty token")
	errNoServers     = errors.New("no instance servers")
	errEmptyEndpoint = errors.New("empty endpoint")
)

// Grant is a short-lived stream credential.
type Grant struct {
	Endpoint     string
	Token        string
	PingInterval time.Duration
	PingTimeout  time.Duration
}

// StreamURL builds the websocket URL for one connection attempt.
func (g Grant) StreamURL(connectID string) string {
	sep := "?"
	if strings.Contains(g.Endpoint, "?") {
		sep = "&"
	}
	return g.Endpoint + sep + "token=" + url.QueryEscape(g.Token) + "&connectId=" + url.QueryEscape(connectID)
}

// Options tunes the broker; zero values fall back to defaults.
type Options struct {
	Timeout          time.Duration
	RPS              float64
	Burst            int
	BreakerFailures  uint32
	BreakerOpenDelay time.Duration
	HTTPClient       *http.Client
}

// Broker exchanges a handshake URL for a Grant. It never retries on its
// own; the caller's backoff decides when to try again.
type Broker struct {
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter

	failures  uint32
	openDelay time.Duration

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewBroker(opts Options) *Broker {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RPS <= 0 {
		opts.RPS = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 2
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerOpenDelay <= 0 {
		opts.BreakerOpenDelay = 30 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Broker{
		client:    client,
		timeout:   opts.Timeout,
		limiter:   rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
		failures:  opts.BreakerFailures,
		openDelay: opts.BreakerOpenDelay,
		breakers:  make(map[string]*gobreaker.CircuitBreaker),
	}
}

type bulletResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Token           string           `json:"token"`
		InstanceServers []instanceServer `json:"instanceServers"`
	} `json:"data"`
}

type instanceServer struct {
	Endpoint     string `json:"endpoint"`
	Protocol     string `json:"protocol"`
	Encrypt      bool   `json:"encrypt"`
	PingInterval int64  `json:"pingInterval"`
	PingTimeout  int64  `json:"pingTimeout"`
}

// Acquire performs one token exchange. Every failure is a *domain.HandshakeError.
func (b *Broker) Acquire(ctx context.Context, handshakeURL string) (Grant, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	fail := func(err error) (Grant, error) {
		metrics.Handshake(false)
		return Grant{}, &domain.HandshakeError{URL: handshakeURL, Err: err}
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return fail(fmt.Errorf("rate limit: %w", err))
	}

	res, err := b.breaker(handshakeURL).Execute(func() (interface{}, error) {
		return b.post(ctx, handshakeURL)
	})
	if err != nil {
		return fail(err)
	}

	metrics.Handshake(true)
	return res.(Grant), nil
}

func (b *Broker) post(ctx context.Context, handshakeURL string) (Grant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, handshakeURL, bytes.NewReader([]byte("{}")))
	if err != nil {
		return Grant{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return Grant{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Grant{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Grant{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var br bulletResponse
	if err := json.Unmarshal(body, &br); err != nil {
		return Grant{}, fmt.Errorf("decode response: %w", err)
	}
	return br.grant()
}

func (br bulletResponse) grant() (Grant, error) {
	if br.Code != "" && br.Code != successCode {
		return Grant{}, fmt.Errorf("code %s: %s", br.Code, br.Msg)
	}
	if strings.TrimSpace(br.Data.Token) == "" {
		return Grant{}, errEmptyToken
	}
	if len(br.Data.InstanceServers) == 0 {
		return Grant{}, errNoServers
	}
	srv := br.Data.InstanceServers[0]
	if strings.TrimSpace(srv.Endpoint) == "" {
		return Grant{}, errEmptyEndpoint
	}
	return Grant{
		Endpoint:     srv.Endpoint,
		Token:        br.Data.Token,
		PingInterval: time.Duration(srv.PingInterval) * time.Millisecond,
		PingTimeout:  time.Duration(srv.PingTimeout) * time.Millisecond,
	}, nil
}

// breaker returns the per-URL circuit breaker.
func (b *Broker) breaker(handshakeURL string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.breakers[handshakeURL]; ok {
		return cb
	}
	failures := b.failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    handshakeURL,
		Timeout: b.openDelay,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("url", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("handshake breaker state changed")
		},
	})
	b.breakers[handshakeURL] = cb
	return cb
}
