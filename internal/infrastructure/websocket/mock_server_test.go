package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockServer is a websocket venue stub. Each accepted connection reads the
// subscribe frame (when readSub is set) and then runs onConn.
type mockServer struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader
	readSub  bool
	onConn   func(i int, conn *websocket.Conn)

	mu    sync.Mutex
	subs  [][]byte
	paths []string
}

func newMockServer(t *testing.T, readSub bool, onConn func(i int, conn *websocket.Conn)) *mockServer {
	t.Helper()
	m := &mockServer{
		readSub: readSub,
		onConn:  onConn,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	m.srv = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.srv.Close)
	return m
}

func (m *mockServer) URL() string {
	return "ws" + strings.TrimPrefix(m.srv.URL, "http")
}

func (m *mockServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	m.mu.Lock()
	i := len(m.paths)
	m.paths = append(m.paths, r.URL.RequestURI())
	m.mu.Unlock()

	if m.readSub {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, b, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Time{})
		m.mu.Lock()
		m.subs = append(m.subs, b)
		m.mu.Unlock()
	}
	if m.onConn != nil {
		m.onConn(i, conn)
	}
}

func (m *mockServer) Conns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.paths)
}

func (m *mockServer) Subs() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.subs))
	copy(out, m.subs)
	return out
}

func (m *mockServer) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}

// drain reads until the client goes away.
func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
