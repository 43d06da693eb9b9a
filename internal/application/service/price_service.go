package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
)

// Subscriber is the part of the price bus the mirror needs.
type Subscriber interface {
	Subscribe(ctx context.Context, key domain.ConnectionKey) <-chan domain.PriceUpdate
}

// PriceService 把 bus 上每个 key 的最新价同步到外部存储（redis/sqlite/postgres）。
// 慢存储只会让中间值被合并掉，不会阻塞 engine。
type PriceService struct {
	bus  Subscriber
	repo port.LatestPriceStore
}

func NewPriceService(bus Subscriber, repo port.LatestPriceStore) *PriceService {
	return &PriceService{bus: bus, repo: repo}
}

// UpdatePrice writes a single update through to the store.
func (s *PriceService) UpdatePrice(ctx context.Context, u domain.PriceUpdate) error {
	return s.repo.UpsertLatestPrice(ctx, u)
}

// Run mirrors every key until ctx ends. Store errors are logged and the
// next update retries.
func (s *PriceService) Run(ctx context.Context, keys []domain.ConnectionKey) error {
	var wg sync.WaitGroup
	for _, key := range keys {
		ch := s.bus.Subscribe(ctx, key)
		wg.Add(1)
		go func(key domain.ConnectionKey) {
			defer wg.Done()
			for u := range ch {
				if err := s.UpdatePrice(ctx, u); err != nil && ctx.Err() == nil {
					log.Warn().Err(err).Str("key", key.String()).Msg("mirror latest price failed")
				}
			}
		}(key)
	}
	wg.Wait()
	return nil
}
