package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// transport wraps one gorilla connection. gorilla allows a single concurrent
// writer, so every data write goes through wmu.
type transport struct {
	conn *websocket.Conn

	wmu       sync.Mutex
	closeOnce sync.Once
}

func dial(ctx context.Context, dialer *websocket.Dialer, url string, timeout time.Duration) (*transport, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	header := http.Header{}
	header.Set("User-Agent", "btcfeed/1.0")
	conn, _, err := dialer.DialContext(cctx, url, header)
	if err != nil {
		return nil, err
	}
	return &transport{conn: conn}, nil
}

func (t *transport) writeText(b []byte) error {
	t.wmu.Lock()
	defer t.wmu.Unlock()
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return t.conn.WriteMessage(websocket.TextMessage, b)
}

// ping sends a protocol-level ping control frame.
func (t *transport) ping() error {
	return t.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait))
}

func (t *transport) close() {
	t.closeOnce.Do(func() {
		t.wmu.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		t.wmu.Unlock()
		_ = t.conn.Close()
	})
}
