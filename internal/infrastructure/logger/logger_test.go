package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestConfigure_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btcfeed.log")
	require.NoError(t, Configure(Options{Level: "debug", Format: "json", Output: path}))
	t.Cleanup(Setup)

	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	log.Info().Str("venue", "binance").Msg("hello")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"venue":"binance"`)
	require.Contains(t, string(b), `"message":"hello"`)
}

func TestConfigure_Invalid(t *testing.T) {
	require.Error(t, Configure(Options{Level: "loud"}))
	require.Error(t, Configure(Options{Format: "xml"}))
}
