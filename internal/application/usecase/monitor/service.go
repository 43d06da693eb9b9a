package monitor

import (
	"context"
	"errors"
	"time"

	"btcfeed/internal/application/port"

	"github.com/rs/zerolog/log"
)

type ServiceDeps struct {
	Source        Source
	Sink          port.Sink
	PrintEveryMin int
	Color         bool
}

// Service 定期把最新价快照打印到 sink。
type Service struct {
	deps  ServiceDeps
	fmt   *Formatter
	every time.Duration
}

func NewService(deps ServiceDeps) *Service {
	every := time.Duration(deps.PrintEveryMin) * time.Minute
	if every <= 0 {
		every = 5 * time.Minute
	}
	return &Service{deps: deps, fmt: NewFormatter(deps.Color), every: every}
}

// WithInterval overrides the print interval.
func (s *Service) WithInterval(d time.Duration) *Service {
	if d > 0 {
		s.every = d
	}
	return s
}

// Print writes one snapshot now.
func (s *Service) Print(now time.Time) error {
	return s.deps.Sink.WriteSnapshot(now, s.fmt.Lines(s.deps.Source.Snapshot()))
}

func (s *Service) Run(ctx context.Context) error {
	if s.deps.Source == nil || s.deps.Sink == nil {
		return errors.New("monitor: source and sink are required")
	}

	snapTicker := time.NewTicker(s.every)
	defer snapTicker.Stop()

	log.Info().Dur("every", s.every).Msg("snapshot printer started")
	for {
		select {
		case <-ctx.Done():
			_ = s.deps.Sink.NewLine()
			return nil
		case now := <-snapTicker.C:
			if err := s.Print(now); err != nil {
				log.Warn().Err(err).Msg("write snapshot failed")
			}
		}
	}
}
