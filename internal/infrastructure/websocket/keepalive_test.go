package websocket

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeepAlive_SendsWhileActive(t *testing.T) {
	var sent atomic.Int32
	ka := newKeepAlive(10*time.Millisecond, func() error {
		sent.Add(1)
		return nil
	})
	ka.start()
	require.Eventually(t, func() bool { return sent.Load() >= 3 }, time.Second, 5*time.Millisecond)
	ka.stop()
}

func TestKeepAlive_TickAfterStopSendsNothing(t *testing.T) {
	var sent atomic.Int32
	ka := newKeepAlive(time.Hour, func() error {
		sent.Add(1)
		return nil
	})
	ka.start()
	require.True(t, ka.tick())
	require.EqualValues(t, 1, sent.Load())

	ka.stop()
	require.False(t, ka.tick())
	require.EqualValues(t, 1, sent.Load())

	// stopping twice is harmless
	ka.stop()
}

func TestKeepAlive_ReportsWriteError(t *testing.T) {
	boom := errors.New("broken pipe")
	ka := newKeepAlive(time.Hour, func() error { return boom })
	ka.start()
	defer ka.stop()

	ka.tick()
	ka.tick()
	select {
	case err := <-ka.errs():
		require.ErrorIs(t, err, boom)
	default:
		t.Fatal("expected an error")
	}
}

func TestKeepAlive_ZeroIntervalDisabled(t *testing.T) {
	var sent atomic.Int32
	ka := newKeepAlive(0, func() error {
		sent.Add(1)
		return nil
	})
	ka.start()
	require.False(t, ka.tick())
	ka.stop()
	require.Zero(t, sent.Load())
}
