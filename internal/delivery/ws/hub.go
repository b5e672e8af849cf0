package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// client is one open socket for a user. A user may hold several sockets
// (multiple tabs); the hub fans out to all of them.
type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub keys live connections by user id and pushes events best effort. A
// slow or absent client never blocks the publisher.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*client]struct{}
	register   chan *client
	unregister chan *client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run owns the client registry. Call it once from main.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*client]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[c.userID]; ok {
				if _, ok := set[c]; ok {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clients, c.userID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish delivers an event to every open socket of the user. Dropped
// silently when the user is offline or a client's buffer is full.
func (h *Hub) Publish(userID string, event string, payload any) {
	raw, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		slog.Error("Failed to encode realtime event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- raw:
		default:
			// Buffer full; the write pump will clean the client up.
		}
	}
}

func (h *Hub) serve(userID string, conn *websocket.Conn) {
	c := &client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 16),
	}
	h.register <- c
	go c.writePump()
	go c.readPump(h)
}

// readPump drains inbound frames so pings and close frames are processed.
// Clients never send application data.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
