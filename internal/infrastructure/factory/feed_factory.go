package factory

import (
	"fmt"
	"strings"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/catalog"
	"btcfeed/internal/infrastructure/pricefeed"
	"btcfeed/internal/infrastructure/websocket"

	"github.com/rs/zerolog/log"
)

// NewTargets 根据 catalog 生成每个 (venue, market) 的 engine target
// adapter 由各交易所包在 register.go 中自动注册，这里只按名字查表
func NewTargets(cat *catalog.Catalog) ([]websocket.Target, error) {
	var targets []websocket.Target

	for _, desc := range cat.Venues() {
		factory, ok := pricefeed.Get(desc.AdapterName())
		if !ok {
			return nil, &domain.ConfigError{
				Venue:  desc.Name,
				Field:  "adapter",
				Reason: fmt.Sprintf("no adapter registered for %q (known: %s)", desc.AdapterName(), strings.Join(pricefeed.Names(), ", ")),
			}
		}

		// 同一个 venue 的现货和合约共用一个 adapter 实例
		adapter := factory(desc)
		for _, m := range cat.Markets(desc.Name) {
			targets = append(targets, websocket.Target{
				Descriptor: desc,
				Market:     m,
				Adapter:    adapter,
			})
		}
		log.Info().Str("venue", desc.Name).Str("adapter", adapter.Name()).Int("markets", len(cat.Markets(desc.Name))).Msg("venue configured")
	}

	return targets, nil
}
