package pricefeed

import (
	"sort"
	"strings"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"

	"github.com/rs/zerolog/log"
)

// Factory builds the adapter for one venue from its catalog descriptor.
type Factory func(d domain.VenueDescriptor) port.VenueAdapter

// registry maps venue names to adapter factories
var registry = make(map[string]Factory)

// Register 注册一个 venue adapter factory
// 这是由各个交易所包的init()函数调用来自注册的
func Register(venue string, factory Factory) {
	venue = strings.ToLower(strings.TrimSpace(venue))
	if factory == nil || venue == "" {
		log.Warn().Str("venue", venue).Msg("invalid venue adapter factory")
		return
	}
	if _, exists := registry[venue]; exists {
		log.Warn().Str("venue", venue).Msg("venue adapter factory already registered, overwriting")
	}
	registry[venue] = factory
}

// Get 获取已注册的 factory
func Get(venue string) (Factory, bool) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(venue))]
	return factory, ok
}

// Names returns the registered venue names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
