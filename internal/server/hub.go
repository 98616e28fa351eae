package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WebSocket message types.
const (
	// Client -> server
	MsgTypePing    = "ping"
	MsgTypeArrange = "arrange"

	// Server -> client
	MsgTypeConnected = "connected"
	MsgTypeFrame     = "frame"
	MsgTypeAck       = "ack"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// WSMessage is the envelope for every websocket message.
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// ArrangePayload is sent by clients with [MsgTypeArrange].
type ArrangePayload struct {
	Name string `json:"name"`
}

// ErrorPayload accompanies [MsgTypeError].
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func newMessage(typ string, payload any) WSMessage {
	msg := WSMessage{Type: typ, Timestamp: time.Now().UnixMilli()}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			msg.Payload = raw
		}
	}
	return msg
}

// client is one websocket connection. Only writeLoop writes to conn.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frame messages out to connected clients. Broadcast never blocks:
// a client whose buffer is full misses the frame.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	logger  *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{clients: make(map[string]*client), logger: logger}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "client", c.id)
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Debug("websocket client disconnected", "client", c.id)
}

// Broadcast sends msg to every client.
func (h *Hub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("encode websocket message", "type", msg.Type, "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}

// sendMessage queues msg for c. It holds the read lock so it cannot race
// with unregister closing the channel.
func (h *Hub) sendMessage(c *client, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) sendError(c *client, err error) {
	h.sendMessage(c, newMessage(MsgTypeError, errorPayload(err)))
}

// writeLoop drains c.send until it is closed.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
