// Package metrics exposes engine counters and gauges to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"btcfeed/internal/domain"
)

const namespace = "btcfeed"

// Frame outcomes.
const (
	OutcomePrice       = "price"
	OutcomeMiss        = "miss"
	OutcomeDecodeError = "decode_error"
	OutcomeLiveness    = "liveness"
)

var (
	connectionState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "1 for the current lifecycle state of each connection, 0 otherwise",
		},
		[]string{"venue", "market", "state"},
	)

	framesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Inbound frames by outcome",
		},
		[]string{"venue", "market", "outcome"},
	)

	reconnectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconnects_total",
			Help:      "Connection attempts after the first one",
		},
		[]string{"venue", "market"},
	)

	handshakesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handshakes_total",
			Help:      "Token handshakes by outcome",
		},
		[]string{"outcome"},
	)

	lastPrice = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_price",
			Help:      "Latest published price",
		},
		[]string{"venue", "market"},
	)
)

// SetState flips the state gauge of key to s.
func SetState(key domain.ConnectionKey, s domain.ConnectionState) {
	market := key.Market.String()
	for _, st := range domain.States() {
		v := 0.0
		if st == s {
			v = 1
		}
		connectionState.WithLabelValues(key.Venue, market, st.String()).Set(v)
	}
}

func Frame(key domain.ConnectionKey, outcome string) {
	framesTotal.WithLabelValues(key.Venue, key.Market.String(), outcome).Inc()
}

func Reconnect(key domain.ConnectionKey) {
	reconnectsTotal.WithLabelValues(key.Venue, key.Market.String()).Inc()
}

func Handshake(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	handshakesTotal.WithLabelValues(outcome).Inc()
}

func Price(u domain.PriceUpdate) {
	lastPrice.WithLabelValues(u.Key.Venue, u.Key.Market.String()).Set(u.Price)
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
