package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"btcfeed/internal/infrastructure/svc"
)

var run = cli.Command{
	Name:   "run",
	Usage:  "stream every enabled venue until interrupted",
	Action: runAction,
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer sc.Close()

	log.Info().
		Int("streams", len(sc.Engine().Keys())).
		Int("print_every_min", cfg.App.PrintEveryMin).
		Str("metrics_addr", cfg.App.MetricsAddr).
		Msg("btcfeed started")

	if err := sc.Run(ctx); err != nil {
		return err
	}
	log.Info().Msg("btcfeed stopped")
	return nil
}
