// File: /services/realtime_hub.go
package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// hubWriteWait bounds a single websocket write.
	hubWriteWait = 10 * time.Second
	// hubSendBuffer is the per-connection outbound queue. A client that
	// lets it fill up is dropped.
	hubSendBuffer = 16
)

// RealtimeEvent is the wire shape pushed to connected clients.
type RealtimeEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// hubClient pairs a connection with its outbound queue. All writes to the
// connection happen on the client's own writeLoop goroutine, never from
// Broadcast callers.
type hubClient struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *hubClient) stop() {
	c.once.Do(func() { close(c.done) })
}

// RealtimeHub fans out engine events to connected websocket clients.
// Delivery is fire-and-forget: a slow or failed connection is dropped and
// never affects the originating operation.
type RealtimeHub struct {
	mu       sync.RWMutex
	clients  map[string]map[*hubClient]bool // user id -> connections
	upgrader websocket.Upgrader
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{
		clients: make(map[string]map[*hubClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register upgrades the request and keeps the connection until the client
// goes away. Incoming frames are drained and discarded; the hub is
// broadcast-only.
func (h *RealtimeHub) Register(userID string, w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &hubClient{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, hubSendBuffer),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*hubClient]bool)
	}
	h.clients[userID][client] = true
	h.mu.Unlock()

	go h.writeLoop(client)
	go h.readLoop(client)
	return nil
}

func (h *RealtimeHub) readLoop(c *hubClient) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *RealtimeHub) writeLoop(c *hubClient) {
	defer h.remove(c)
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(hubWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}

func (h *RealtimeHub) remove(c *hubClient) {
	h.mu.Lock()
	if conns, ok := h.clients[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.stop()
	_ = c.conn.Close()
}

// Broadcast queues an event for every connection of the listed users. The
// caller never blocks on a client's socket: a connection whose queue is
// full is dropped.
func (h *RealtimeHub) Broadcast(userIDs []string, event string, payload interface{}) {
	data, err := json.Marshal(RealtimeEvent{Event: event, Payload: payload})
	if err != nil {
		fmt.Printf("Failed to marshal realtime event %s: %v\n", event, err)
		return
	}

	h.mu.RLock()
	var targets []*hubClient
	for _, userID := range userIDs {
		for c := range h.clients[userID] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		case <-c.done:
		default:
			h.remove(c)
		}
	}
}
