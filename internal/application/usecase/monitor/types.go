package monitor

import (
	"time"

	"btcfeed/internal/application/pricebus"
	"btcfeed/internal/domain"
)

// Source is anything that can produce an ordered copy of the latest prices.
type Source interface {
	Snapshot() []pricebus.Entry
}

// Row 是快照表里的一行：一个 venue 的现货、合约和基差。
type Row struct {
	Venue      string
	Spot       *pricebus.Entry
	Futures    *pricebus.Entry
	Expiration *time.Time
}

// Basis is (futures - spot) / spot in percent.
func (r Row) Basis() (float64, bool) {
	if r.Spot == nil || r.Futures == nil || !(r.Spot.Update.Price > 0) {
		return 0, false
	}
	return (r.Futures.Update.Price - r.Spot.Update.Price) / r.Spot.Update.Price * 100, true
}

// Rows groups entries by venue, preserving the order of first appearance.
func Rows(entries []pricebus.Entry) []Row {
	var rows []Row
	index := make(map[string]int)
	for i := range entries {
		e := entries[i]
		venue := e.Update.Key.Venue
		idx, ok := index[venue]
		if !ok {
			idx = len(rows)
			index[venue] = idx
			rows = append(rows, Row{Venue: venue})
		}
		if e.Update.Key.Market == domain.MarketSpot {
			rows[idx].Spot = &e
			continue
		}
		rows[idx].Futures = &e
		rows[idx].Expiration = e.Update.ExpirationDate
	}
	return rows
}
