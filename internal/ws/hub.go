package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"social-service/internal/observability"
)

// ErrNoRoom is reported through the acknowledgment when a chat event names a
// room nobody is joined to.
var ErrNoRoom = errors.New("no receiving room")

// wsConn is the subset of *websocket.Conn the hub relies on.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live relay connection. Writes are serialized per connection.
type Client struct {
	conn wsConn
	info ConnInfo
	mu   sync.Mutex
}

// NewClient wraps a websocket connection.
func NewClient(conn wsConn, info ConnInfo) *Client {
	return &Client{conn: conn, info: info}
}

func (c *Client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Event is one relay frame, client- or server-originated.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// RoomPayload carries join_room / leave_room data. The user object is opaque
// to the relay.
type RoomPayload struct {
	User json.RawMessage `json:"user"`
	Room string          `json:"room"`
}

// ChatPayload carries chat_room data.
type ChatPayload struct {
	User    json.RawMessage `json:"user"`
	Message json.RawMessage `json:"message"`
	Room    string          `json:"room"`
}

// Hub tracks live connections and named-room membership. Rooms come into
// existence on first join and vanish when their last member leaves.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	joined map[*Client]map[string]bool
	count  int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]bool),
		joined: make(map[*Client]map[string]bool),
	}
}

// Register adds a live connection to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joined[c] = make(map[string]bool)
	h.count++
}

// Unregister removes the connection from every room it joined and returns the
// rooms it left. Safe to call more than once for the same client; only the
// first call touches the count.
func (h *Hub) Unregister(c *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.joined[c]; !ok {
		return nil
	}

	var left []string
	for room := range h.joined[c] {
		h.removeLocked(room, c)
		left = append(left, room)
	}
	delete(h.joined, c)
	if h.count > 0 {
		h.count--
	}
	return left
}

// Join adds the connection to a room; idempotent.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.joined[c]; !ok {
		return
	}
	if h.joined[c][room] {
		return
	}
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	h.joined[c][room] = true
	observability.IncRoomMembers()
}

// Leave removes the connection from a room; no-op if not a member.
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.joined[c][room] {
		return
	}
	h.removeLocked(room, c)
	delete(h.joined[c], room)
}

func (h *Hub) removeLocked(room string, c *Client) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
		observability.DecRoomMembers()
	}
}

// Chat multicasts the payload to every member of the room, including the
// sender if self-joined. Delivery is independent of any persistence.
func (h *Hub) Chat(room string, payload ChatPayload) error {
	if room == "" {
		return ErrNoRoom
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	if len(members) == 0 {
		return ErrNoRoom
	}

	data, _ := json.Marshal(payload)
	frame, _ := json.Marshal(Event{Event: "chat_room", Data: data})
	for _, c := range members {
		if err := c.send(frame); err != nil {
			log.Printf("websocket write error: %v", err)
			c.conn.Close()
			h.Unregister(c)
			h.publishWSError(c, err)
		}
	}
	return nil
}

// Members reports the current size of a room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Connections reports the number of registered connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) publishWSError(c *Client, err error) {
	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"event":       observability.WSError,
			"conn_id":     c.info.ConnID,
			"duration_ms": time.Since(c.info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"user_id":   c.info.UserID,
			"device_id": c.info.DeviceID,
			"ip":        c.info.IP,
		},
	}

	headers := observability.BuildHeaders(c.info.RequestID, c.info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.rooms", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: observability.WSError,
		Payload:   payload,
	}, headers)
	observability.IncWSEvent(observability.WSError)
}
