package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *RealtimeHub, userID string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Register(userID, w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *RealtimeHub, userID string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		got := len(hub.clients[userID])
		hub.mu.RUnlock()
		if got == n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("user %s never reached %d connections", userID, n)
}

func TestBroadcastDelivers(t *testing.T) {
	hub := NewRealtimeHub()
	srv := newHubServer(t, hub, "u1")
	conn := dialHub(t, srv)

	waitForClients(t, hub, "u1", 1)

	hub.Broadcast([]string{"u1"}, "new_message", map[string]string{"id": "m1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event RealtimeEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "new_message", event.Event)
}

func TestBroadcastNeverBlocksOnStalledClient(t *testing.T) {
	hub := NewRealtimeHub()
	srv := newHubServer(t, hub, "u1")
	_ = dialHub(t, srv) // connected but never reads

	waitForClients(t, hub, "u1", 1)

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					hub.Broadcast([]string{"u1"}, "new_message", map[string]int{"n": j})
				}
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast stalled behind a client that stopped reading")
	}
}
