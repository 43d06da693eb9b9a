package redis

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestNewDerivesKeys(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	r := New(rdb, "btcfeed", 0, "")
	require.Equal(t, "btcfeed:latest", r.Key())
	require.Equal(t, "btcfeed:prices:pub", r.Channel())

	r = New(rdb, "x", 0, "custom")
	require.Equal(t, "custom", r.Channel())
}
