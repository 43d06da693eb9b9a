package composite

import (
	"context"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
)

type Repo struct {
	repos []port.LatestPriceStore
}

func New(repos ...port.LatestPriceStore) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.LatestPriceStore, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

// Len is the number of wrapped stores.
func (r *Repo) Len() int { return len(r.repos) }

func (r *Repo) UpsertLatestPrice(ctx context.Context, u domain.PriceUpdate) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.UpsertLatestPrice(ctx, u); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) Close() error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.LatestPriceStore = (*Repo)(nil)
