package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
	"btcfeed/internal/infrastructure/storage/record"

	"github.com/redis/go-redis/v9"
)

// Repo 把每个 ConnectionKey 的最新价写进一个 hash，并在 channel 上广播。
type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":latest"
	channel   string
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, channel string) *Repo {
	if strings.TrimSpace(channel) == "" {
		channel = prefix + ":prices:pub"
	}
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":latest",
		channel:   channel,
	}
}

// Key is the hash holding the latest records.
func (r *Repo) Key() string { return r.keyLatest }

// Channel is the pub/sub channel updates are published on.
func (r *Repo) Channel() string { return r.channel }

func (r *Repo) UpsertLatestPrice(ctx context.Context, u domain.PriceUpdate) error {
	if !(u.Price > 0) {
		return nil
	}
	lp := record.FromUpdate(u)
	b, err := json.Marshal(lp)
	if err != nil {
		return err
	}

	// Hash: field = "binance:spot" -> json
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, lp.Field(), string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	pipe.Publish(ctx, r.channel, string(b))
	_, err = pipe.Exec(ctx)
	return err
}

// Latest reads back every stored record.
func (r *Repo) Latest(ctx context.Context) ([]record.Latest, error) {
	fields, err := r.rdb.HGetAll(ctx, r.keyLatest).Result()
	if err != nil {
		return nil, err
	}
	out := make([]record.Latest, 0, len(fields))
	for _, v := range fields {
		var lp record.Latest
		if err := json.Unmarshal([]byte(v), &lp); err != nil {
			return nil, err
		}
		out = append(out, lp)
	}
	return out, nil
}

// Close 不关闭 client，client 的生命周期归 ServiceContext 管。
func (r *Repo) Close() error { return nil }

var _ port.LatestPriceStore = (*Repo)(nil)
