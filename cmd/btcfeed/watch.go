package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/svc"
)

var watch = cli.Command{
	Name:  "watch",
	Usage: "stream and print the quotes of a single venue/market",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "venue", Required: true},
		&cli.StringFlag{Name: "market", Value: "spot"},
	},
	Action: watchAction,
}

func watchAction(c *cli.Context) error {
	market, err := domain.ParseMarket(c.String("market"))
	if err != nil {
		return err
	}
	venue := c.String("venue")

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	// watch 只打印行情，不做周期快照
	cfg.App.PrintEveryMin = 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer sc.Close()

	if _, ok := sc.Engine().Supervisor(domain.NewKey(strings.ToLower(venue), market)); !ok {
		return fmt.Errorf("%s %s is not an enabled stream", venue, market)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- sc.Run(ctx) }()

	for q := range sc.Feed().Subscribe(ctx, venue, market) {
		fmt.Printf("%s %s %s %.2f\n", q.Timestamp.Format("15:04:05.000"), venue, market, q.Price)
	}
	return <-errCh
}
