// Package record 是各个最新价镜像共用的序列化格式。
package record

import "btcfeed/internal/domain"

// Latest is one ConnectionKey's latest price as stored by the mirrors.
type Latest struct {
	Venue      string  `json:"venue"`
	Market     string  `json:"market"`
	Price      float64 `json:"price"`
	TsMs       int64   `json:"ts_ms"`
	Expiration string  `json:"expiration,omitempty"`
}

func FromUpdate(u domain.PriceUpdate) Latest {
	l := Latest{
		Venue:  u.Key.Venue,
		Market: u.Key.Market.String(),
		Price:  u.Price,
		TsMs:   u.ReceivedAt.UnixMilli(),
	}
	if u.ExpirationDate != nil {
		l.Expiration = u.ExpirationDate.UTC().Format(domain.ExpirationLayout)
	}
	return l
}

// Field is the per-key field/row identity, "venue:market".
func (l Latest) Field() string { return l.Venue + ":" + l.Market }
