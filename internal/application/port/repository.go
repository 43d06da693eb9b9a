package port

import (
	"context"

	"btcfeed/internal/domain"
)

// LatestPriceStore mirrors the latest value per ConnectionKey. Implementations
// keep exactly one record per key.
type LatestPriceStore interface {
	UpsertLatestPrice(ctx context.Context, u domain.PriceUpdate) error
	Close() error
}
