package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/catalog"
)

var venues = cli.Command{
	Name:   "venues",
	Usage:  "print the effective venue table and exit",
	Action: venuesAction,
}

func venuesAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cat, err := catalog.Load(cfg.Venues)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VENUE\tMARKET\tPROTOCOL\tSYMBOL\tENDPOINT\tEXPIRY")
	for _, d := range cat.Venues() {
		for _, m := range cat.Markets(d.Name) {
			endpoint := d.Endpoint(m)
			if endpoint == "" {
				endpoint = d.Handshake(m)
			}
			expiry := "-"
			if exp := d.Expiration(m); exp != nil {
				expiry = exp.Format(domain.ExpirationLayout)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", d.Name, m, d.Protocol, d.Symbol(m), endpoint, expiry)
		}
	}
	return w.Flush()
}
