package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"social-service/internal/auth"
	"social-service/internal/observability"
)

// SocketHandler owns the relay websocket endpoint.
type SocketHandler struct {
	hub       *Hub
	jwtSecret string
}

// NewSocketHandler constructs a SocketHandler.
func NewSocketHandler(hub *Hub, jwtSecret string) *SocketHandler {
	return &SocketHandler{hub: hub, jwtSecret: jwtSecret}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates, upgrades the connection, and starts the event loop.
func (h *SocketHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("social-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	userID, err := auth.ParseToken(h.jwtSecret, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	client := NewClient(conn, info)
	h.hub.Register(client)

	observability.IncWSActive()
	observability.IncWSEvent(observability.WSConnect)
	h.publishLifecycle(ctx, client, observability.WSConnect, "")
	log.Printf("relay connect conn=%s user=%d clients=%d", info.ConnID, userID, h.hub.Connections())

	go h.readLoop(ctx, client, conn)
}

func (h *SocketHandler) readLoop(ctx context.Context, client *Client, conn *websocket.Conn) {
	var closeReason string
	defer func() {
		h.hub.Unregister(client)
		observability.DecWSActive()
		observability.IncWSEvent(observability.WSDisconnect)
		h.publishLifecycle(ctx, client, observability.WSDisconnect, closeReason)
		log.Printf("relay disconnect conn=%s clients=%d", client.info.ConnID, h.hub.Connections())
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent(observability.WSError)
				h.publishLifecycle(ctx, client, observability.WSError, closeReason)
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			h.ack(client, "invalid event")
			continue
		}

		switch evt.Event {
		case "join_room":
			var p RoomPayload
			if err := json.Unmarshal(evt.Data, &p); err != nil || p.Room == "" {
				h.ack(client, "invalid room")
				continue
			}
			h.hub.Join(p.Room, client)
			observability.IncWSEvent(observability.WSJoinRoom)

		case "leave_room":
			var p RoomPayload
			if err := json.Unmarshal(evt.Data, &p); err != nil || p.Room == "" {
				h.ack(client, "invalid room")
				continue
			}
			h.hub.Leave(p.Room, client)
			observability.IncWSEvent(observability.WSLeaveRoom)

		case "chat_room":
			var p ChatPayload
			if err := json.Unmarshal(evt.Data, &p); err != nil {
				h.ack(client, "invalid event")
				continue
			}
			if err := h.hub.Chat(p.Room, p); err != nil {
				h.ack(client, err.Error())
				continue
			}
			observability.IncWSEvent(observability.WSChat)

		default:
			h.ack(client, "unknown event")
		}
	}
}

// ack delivers an error acknowledgment to the sender only. Relay errors never
// break the connection.
func (h *SocketHandler) ack(client *Client, message string) {
	data, _ := json.Marshal(map[string]string{"error": message})
	frame, _ := json.Marshal(Event{Event: "ack", Data: data})
	if err := client.send(frame); err != nil {
		log.Printf("websocket ack write error: %v", err)
	}
}

func (h *SocketHandler) publishLifecycle(ctx context.Context, client *Client, event, reason string) {
	info := client.info
	_ = observability.PublishEvent(ctx, "ws_events.rooms", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		if len(header) > 7 && (header[:7] == "Bearer " || header[:7] == "bearer ") {
			return header[7:]
		}
		return ""
	}
	return c.Query("token")
}
