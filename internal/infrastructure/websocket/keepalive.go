package websocket

import (
	"sync"
	"time"
)

// keepAlive fires send every interval while the connection is streaming.
// After stop returns no further send happens, even for a tick that was
// already pending.
type keepAlive struct {
	interval time.Duration
	send     func() error

	mu     sync.Mutex
	active bool
	done   chan struct{}
	errCh  chan error
}

func newKeepAlive(interval time.Duration, send func() error) *keepAlive {
	return &keepAlive{
		interval: interval,
		send:     send,
		done:     make(chan struct{}),
		errCh:    make(chan error, 1),
	}
}

func (k *keepAlive) start() {
	if k.interval <= 0 {
		return
	}
	k.mu.Lock()
	k.active = true
	k.mu.Unlock()

	ticker := time.NewTicker(k.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-k.done:
				return
			case <-ticker.C:
				k.tick()
			}
		}
	}()
}

// tick sends one keep-alive frame; false when the scheduler is stopped.
func (k *keepAlive) tick() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.active {
		return false
	}
	if err := k.send(); err != nil {
		select {
		case k.errCh <- err:
		default:
		}
	}
	return true
}

func (k *keepAlive) stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.active {
		return
	}
	k.active = false
	close(k.done)
}

// errs reports write failures of keep-alive frames.
func (k *keepAlive) errs() <-chan error { return k.errCh }
