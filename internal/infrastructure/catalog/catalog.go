// Package catalog loads the venue table: built-in descriptors merged with
// the [venues.*] config entries.
package catalog

import (
	"sort"
	"strings"
	"time"

	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/config"
)

// Catalog is the validated, immutable set of venues to stream.
type Catalog struct {
	venues  []domain.VenueDescriptor
	byName  map[string]int
	markets map[string][]domain.Market
}

// New validates descs and rejects duplicate names (case-insensitive).
func New(descs []domain.VenueDescriptor) (*Catalog, error) {
	c := &Catalog{
		byName:  make(map[string]int, len(descs)),
		markets: make(map[string][]domain.Market, len(descs)),
	}
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(d.Name)
		if _, dup := c.byName[key]; dup {
			return nil, &domain.ConfigError{Venue: d.Name, Field: "name", Reason: "duplicate venue"}
		}
		c.byName[key] = len(c.venues)
		c.venues = append(c.venues, d)
		c.markets[key] = d.Markets()
	}
	return c, nil
}

// Load merges the built-in table with config overrides. Venues disabled in
// config are dropped; unknown names become new venues, usually with
// adapter = "<family>".
func Load(overrides map[string]config.VenueConfig) (*Catalog, error) {
	defaults := Defaults()
	index := make(map[string]int, len(defaults))
	for i, d := range defaults {
		index[d.Name] = i
	}

	seen := make(map[string]string, len(overrides))
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	disabled := map[string]bool{}
	restrict := map[string][]domain.Market{}
	var added []domain.VenueDescriptor

	for _, raw := range names {
		v := overrides[raw]
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			return nil, &domain.ConfigError{Venue: raw, Field: "name", Reason: "empty"}
		}
		if prev, dup := seen[name]; dup {
			return nil, &domain.ConfigError{Venue: raw, Field: "name", Reason: "duplicate of " + prev}
		}
		seen[name] = raw

		if !v.IsEnabled() {
			disabled[name] = true
			continue
		}

		var base domain.VenueDescriptor
		i, known := index[name]
		if known {
			base = defaults[i]
		} else {
			base = domain.VenueDescriptor{Name: name}
		}
		d, err := apply(base, v)
		if err != nil {
			return nil, err
		}
		if len(v.Markets) > 0 {
			restrict[name] = parseMarkets(v.Markets)
		}
		if known {
			defaults[i] = d
		} else {
			added = append(added, d)
		}
	}

	all := make([]domain.VenueDescriptor, 0, len(defaults)+len(added))
	for _, d := range defaults {
		if !disabled[d.Name] {
			all = append(all, d)
		}
	}
	all = append(all, added...)

	c, err := New(all)
	if err != nil {
		return nil, err
	}
	for name, ms := range restrict {
		c.markets[name] = intersect(c.markets[name], ms)
	}
	return c, nil
}

func apply(d domain.VenueDescriptor, v config.VenueConfig) (domain.VenueDescriptor, error) {
	fail := func(field, reason string) error {
		return &domain.ConfigError{Venue: d.Name, Field: field, Reason: reason}
	}

	if v.Adapter != "" {
		d.Adapter = strings.ToLower(strings.TrimSpace(v.Adapter))
	}
	if v.Protocol != "" {
		kind, err := domain.ParseProtocolKind(v.Protocol)
		if err != nil {
			return d, fail("protocol", err.Error())
		}
		d.Protocol = kind
	}
	setString(&d.SpotEndpointTemplate, v.SpotURL)
	setString(&d.FuturesEndpointTemplate, v.FuturesURL)
	setString(&d.SpotSymbol, v.SpotSymbol)
	setString(&d.FuturesSymbol, v.FuturesSymbol)
	setString(&d.HandshakeURL, v.HandshakeURL)
	setString(&d.FuturesHandshakeURL, v.FuturesHandshakeURL)

	if s := strings.TrimSpace(v.ExpirationDate); s != "" {
		t, err := time.ParseInLocation(domain.ExpirationLayout, s, time.UTC)
		if err != nil {
			return d, fail("expiration_date", "want "+domain.ExpirationLayout)
		}
		d.ExpirationDate = &t
	}
	if v.KeepAliveInterval != 0 {
		d.KeepAliveInterval = v.KeepAliveInterval
	}
	return d, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func parseMarkets(in []string) []domain.Market {
	out := make([]domain.Market, 0, len(in))
	for _, s := range in {
		if m, err := domain.ParseMarket(s); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func intersect(served, wanted []domain.Market) []domain.Market {
	out := make([]domain.Market, 0, len(served))
	for _, m := range served {
		for _, w := range wanted {
			if m == w {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Venues returns the descriptors in table order.
func (c *Catalog) Venues() []domain.VenueDescriptor {
	out := make([]domain.VenueDescriptor, len(c.venues))
	copy(out, c.venues)
	return out
}

// Venue looks a descriptor up by name.
func (c *Catalog) Venue(name string) (domain.VenueDescriptor, bool) {
	i, ok := c.byName[strings.ToLower(name)]
	if !ok {
		return domain.VenueDescriptor{}, false
	}
	return c.venues[i], true
}

// Markets lists the enabled markets of venue.
func (c *Catalog) Markets(venue string) []domain.Market {
	return c.markets[strings.ToLower(venue)]
}

// Keys lists one ConnectionKey per enabled (venue, market), in table order.
func (c *Catalog) Keys() []domain.ConnectionKey {
	var keys []domain.ConnectionKey
	for _, d := range c.venues {
		for _, m := range c.markets[strings.ToLower(d.Name)] {
			keys = append(keys, domain.NewKey(d.Name, m))
		}
	}
	return keys
}
