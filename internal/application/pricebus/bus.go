// Package pricebus holds the latest normalized price per ConnectionKey and
// fans updates out to subscribers.
package pricebus

import (
	"context"
	"sort"
	"sync"

	"btcfeed/internal/domain"
)

// Entry is a read-only copy of one key's state.
type Entry struct {
	Update    domain.PriceUpdate
	Direction domain.Direction
}

type subscriber struct {
	ch chan domain.PriceUpdate
}

// send replaces any undelivered value with u. Callers hold the entry lock,
// so a subscriber never observes an older value after a newer one.
func (s *subscriber) send(u domain.PriceUpdate) {
	select {
	case s.ch <- u:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- u:
	default:
	}
}

type entry struct {
	mu     sync.Mutex
	latest domain.PriceUpdate
	state  domain.PriceState
	subs   map[*subscriber]struct{}
}

// Bus is the registry of latest prices. Entries are created lazily and live
// as long as the process.
type Bus struct {
	mu      sync.RWMutex
	entries map[domain.ConnectionKey]*entry
}

func New() *Bus {
	return &Bus{entries: make(map[domain.ConnectionKey]*entry)}
}

func (b *Bus) entry(key domain.ConnectionKey) *entry {
	b.mu.RLock()
	e := b.entries[key]
	b.mu.RUnlock()
	if e != nil {
		return e
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if e = b.entries[key]; e == nil {
		e = &entry{subs: make(map[*subscriber]struct{})}
		b.entries[key] = e
	}
	return e
}

// Publish stores u unless the key already holds a newer update, then
// notifies subscribers. It never blocks on slow consumers. Returns false
// when u was dropped as out of order or carried no usable price.
func (b *Bus) Publish(u domain.PriceUpdate) bool {
	if !(u.Price > 0) {
		return false
	}
	e := b.entry(u.Key)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.HasValue && !u.Supersedes(e.latest) {
		return false
	}
	e.latest = u
	e.state.Update(u.Price, u.ReceivedAt)
	for s := range e.subs {
		s.send(u)
	}
	return true
}

// Subscribe delivers the current value (if any) and every later one until
// ctx is done, then closes the channel. Intermediate values may be
// coalesced for slow readers.
func (b *Bus) Subscribe(ctx context.Context, key domain.ConnectionKey) <-chan domain.PriceUpdate {
	e := b.entry(key)
	s := &subscriber{ch: make(chan domain.PriceUpdate, 1)}

	e.mu.Lock()
	if e.state.HasValue {
		s.ch <- e.latest
	}
	e.subs[s] = struct{}{}
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.mu.Lock()
		delete(e.subs, s)
		close(s.ch)
		e.mu.Unlock()
	}()
	return s.ch
}

// GetLatest returns the newest update for key.
func (b *Bus) GetLatest(key domain.ConnectionKey) (domain.PriceUpdate, bool) {
	b.mu.RLock()
	e := b.entries[key]
	b.mu.RUnlock()
	if e == nil {
		return domain.PriceUpdate{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest, e.state.HasValue
}

// Keys lists every key that has been published or subscribed, sorted.
func (b *Bus) Keys() []domain.ConnectionKey {
	b.mu.RLock()
	keys := make([]domain.ConnectionKey, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	b.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Snapshot returns every key holding a value, sorted by key.
func (b *Bus) Snapshot() []Entry {
	keys := b.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		b.mu.RLock()
		e := b.entries[k]
		b.mu.RUnlock()

		e.mu.Lock()
		if e.state.HasValue {
			out = append(out, Entry{Update: e.latest, Direction: e.state.Direction})
		}
		e.mu.Unlock()
	}
	return out
}
