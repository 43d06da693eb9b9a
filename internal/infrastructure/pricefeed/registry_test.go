package pricefeed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btcfeed/internal/application/port"
	"btcfeed/internal/domain"
)

func TestRegisterAndGet(t *testing.T) {
	Register(" TestVenue ", func(domain.VenueDescriptor) port.VenueAdapter { return nil })
	Register("", func(domain.VenueDescriptor) port.VenueAdapter { return nil })
	Register("nil-factory", nil)

	_, ok := Get("testvenue")
	require.True(t, ok)
	_, ok = Get("TESTVENUE")
	require.True(t, ok)
	_, ok = Get("nil-factory")
	require.False(t, ok)

	require.Contains(t, Names(), "testvenue")
	require.NotContains(t, Names(), "")
}
