package ws

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	f.frames = append(f.frames, buf)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) events(t *testing.T) []Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []Event
	for _, frame := range f.frames {
		var evt Event
		require.NoError(t, json.Unmarshal(frame, &evt))
		events = append(events, evt)
	}
	return events
}

func newTestClient(hub *Hub) (*Client, *fakeConn) {
	conn := &fakeConn{}
	client := NewClient(conn, ConnInfo{ConnID: "test"})
	hub.Register(client)
	return client, conn
}

func TestJoinAndLeaveRoom(t *testing.T) {
	hub := NewHub()
	client, _ := newTestClient(hub)

	hub.Join("r1", client)
	require.Equal(t, 1, hub.Members("r1"))

	// joining again must not double-count
	hub.Join("r1", client)
	require.Equal(t, 1, hub.Members("r1"))

	hub.Leave("r1", client)
	require.Equal(t, 0, hub.Members("r1"))

	// leaving a room we are not in is a no-op
	hub.Leave("r1", client)
	require.Equal(t, 0, hub.Members("r1"))
}

func TestChatBroadcastsToRoomMembersIncludingSender(t *testing.T) {
	hub := NewHub()
	sender, senderConn := newTestClient(hub)
	member, memberConn := newTestClient(hub)
	outsider, outsiderConn := newTestClient(hub)

	hub.Join("r1", sender)
	hub.Join("r1", member)
	hub.Join("r2", outsider)

	payload := ChatPayload{
		User:    json.RawMessage(`{"name":"alice"}`),
		Message: json.RawMessage(`"hello"`),
		Room:    "r1",
	}
	require.NoError(t, hub.Chat("r1", payload))

	for _, conn := range []*fakeConn{senderConn, memberConn} {
		events := conn.events(t)
		require.Len(t, events, 1)
		require.Equal(t, "chat_room", events[0].Event)

		var got ChatPayload
		require.NoError(t, json.Unmarshal(events[0].Data, &got))
		require.Equal(t, "r1", got.Room)
	}
	require.Empty(t, outsiderConn.events(t))
}

func TestChatWithoutReceivingRoom(t *testing.T) {
	hub := NewHub()
	client, conn := newTestClient(hub)
	hub.Join("r1", client)

	require.ErrorIs(t, hub.Chat("", ChatPayload{}), ErrNoRoom)
	require.ErrorIs(t, hub.Chat("empty", ChatPayload{Room: "empty"}), ErrNoRoom)
	require.Empty(t, conn.events(t))
}

func TestUnregisterLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	client, _ := newTestClient(hub)
	other, otherConn := newTestClient(hub)

	hub.Join("r1", client)
	hub.Join("r2", client)
	hub.Join("r1", other)
	require.Equal(t, 2, hub.Connections())

	left := hub.Unregister(client)
	require.ElementsMatch(t, []string{"r1", "r2"}, left)
	require.Equal(t, 1, hub.Members("r1"))
	require.Equal(t, 0, hub.Members("r2"))
	require.Equal(t, 1, hub.Connections())

	// remaining member still receives broadcasts
	require.NoError(t, hub.Chat("r1", ChatPayload{Room: "r1"}))
	require.Len(t, otherConn.events(t), 1)
}

func TestUnregisterTwiceKeepsCountAccurate(t *testing.T) {
	hub := NewHub()
	gone, _ := newTestClient(hub)
	stays, _ := newTestClient(hub)

	hub.Join("r1", gone)
	hub.Join("r1", stays)

	require.ElementsMatch(t, []string{"r1"}, hub.Unregister(gone))
	require.Nil(t, hub.Unregister(gone))

	require.Equal(t, 1, hub.Connections())
	require.Equal(t, 1, hub.Members("r1"))
}
