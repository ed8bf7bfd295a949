// Package stream pushes world snapshots to renderer clients over websockets.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/safewaylabs/safeway-sim/core"
	"github.com/safewaylabs/safeway-sim/internal/logging"
)

// Frame is one message on the wire: a typed envelope around a snapshot.
type Frame struct {
	Type     string              `json:"type"`
	Snapshot *core.WorldSnapshot `json:"snapshot"`
}

// Hub fans world snapshots out to all connected websocket clients. Slow or
// broken clients are dropped rather than allowed to stall the tick loop.
type Hub struct {
	log      logging.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	nextID  uint64
}

type client struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns a hub with no clients. A nil logger falls back to noop.
func NewHub(log logging.Logger) *Hub {
	if log == nil {
		log = logging.Noop()
	}
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// ClientCount reports how many websocket clients are currently attached.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish encodes the snapshot and queues it for every connected client.
// Clients whose send queue is full are disconnected.
func (h *Hub) Publish(snapshot core.WorldSnapshot) {
	data, err := json.Marshal(Frame{Type: "snapshot", Snapshot: &snapshot})
	if err != nil {
		h.log.Error(context.Background(), "failed to marshal snapshot frame", logging.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	h.latest = data
	var stalled []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			stalled = append(stalled, c)
		}
	}
	for _, c := range stalled {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()

	for _, c := range stalled {
		h.log.Warn(context.Background(), "dropping stalled stream client", logging.Uint64("client_id", c.id))
		c.conn.Close()
	}
}

// ServeHTTP upgrades the request to a websocket, sends the most recent
// snapshot immediately, then streams frames until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logging.String("error", err.Error()))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}

	h.mu.Lock()
	h.nextID++
	c.id = h.nextID
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	h.mu.Unlock()

	h.log.Debug(r.Context(), "stream client connected", logging.Uint64("client_id", c.id))

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(c)
			return
		}
	}
}

// readLoop drains incoming messages so control frames are processed; the
// protocol is one-way, so payloads are discarded.
func (h *Hub) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
		close(c.send)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}
