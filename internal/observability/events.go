package observability

// Relay lifecycle event names published to the ws_events stream.
const (
	WSConnect    = "ws_connect"
	WSDisconnect = "ws_disconnect"
	WSJoinRoom   = "ws_join_room"
	WSLeaveRoom  = "ws_leave_room"
	WSChat       = "ws_chat"
	WSError      = "ws_error"
)

type EventEnvelope struct {
	EventType string      `json:"event_type"`
	EventName string      `json:"event_name"`
	Payload   interface{} `json:"payload"`
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
