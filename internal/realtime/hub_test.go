package realtime

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pulse-chat-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presenceRecorder struct {
	mu    sync.Mutex
	calls [][2]string
}

func (p *presenceRecorder) ConnectionLeft(roomId, connId string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, [2]string{roomId, connId})
}

func (p *presenceRecorder) recorded() [][2]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][2]string, len(p.calls))
	copy(out, p.calls)
	return out
}

func newTestHub(t *testing.T) (*Hub, *presenceRecorder) {
	t.Helper()
	presence := &presenceRecorder{}
	log := logger.NewIsolatedLogger(filepath.Join(t.TempDir(), "ws.log"))
	hub := NewHub(nil, presence, log)
	go hub.Run()
	return hub, presence
}

func newTestClient(hub *Hub, id string) *Client {
	c := &Client{Hub: hub, ID: id, Send: make(chan []byte, 16)}
	hub.Register(c)
	return c
}

func receiveEvent(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Envelope{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Fatalf("unexpected event: %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_BroadcastRoom(t *testing.T) {
	hub, _ := newTestHub(t)

	a := newTestClient(hub, "conn-a")
	b := newTestClient(hub, "conn-b")
	other := newTestClient(hub, "conn-other")

	hub.JoinRoom(a, "room-1")
	hub.JoinRoom(b, "room-1")
	hub.JoinRoom(other, "room-2")

	hub.BroadcastRoom("room-1", EventSystemMessage, map[string]interface{}{"text": "hello"})

	for _, c := range []*Client{a, b} {
		env := receiveEvent(t, c)
		assert.Equal(t, EventSystemMessage, env.Event)
		assert.JSONEq(t, `{"text":"hello"}`, string(env.Data))
	}
	assertNoEvent(t, other)
}

func TestHub_JoinRoom(t *testing.T) {
	t.Run("switching rooms purges presence in the old room", func(t *testing.T) {
		hub, presence := newTestHub(t)
		c := newTestClient(hub, "conn")

		hub.JoinRoom(c, "room-1")
		assert.Equal(t, "room-1", hub.RoomOf(c))

		hub.JoinRoom(c, "room-2")
		assert.Equal(t, "room-2", hub.RoomOf(c))
		assert.Equal(t, [][2]string{{"room-1", "conn"}}, presence.recorded())

		// No longer a member of the old room.
		hub.BroadcastRoom("room-1", EventSystemMessage, map[string]interface{}{})
		assertNoEvent(t, c)
	})

	t.Run("rejoining the current room is a no-op", func(t *testing.T) {
		hub, presence := newTestHub(t)
		c := newTestClient(hub, "conn")

		assert.True(t, hub.JoinRoom(c, "room-1"))
		assert.False(t, hub.JoinRoom(c, "room-1"))
		assert.Empty(t, presence.recorded())
	})
}

func TestHub_Unregister(t *testing.T) {
	hub, presence := newTestHub(t)
	c := newTestClient(hub, "conn")
	hub.JoinRoom(c, "room-1")

	hub.Unregister(c)

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-c.Send:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "send channel should be closed")

	assert.Equal(t, [][2]string{{"room-1", "conn"}}, presence.recorded())

	// A stale second unregister (e.g. pump teardown racing a broadcast
	// drop) must not panic, and neither may a late enqueue.
	hub.Unregister(c)
	c.Enqueue(EventError, map[string]interface{}{"message": "late"})
}
