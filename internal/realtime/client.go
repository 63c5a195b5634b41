package realtime

import (
	"sync"
	"time"

	"pulse-chat-be/internal/dto"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024 // behavior batches can be chunky
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// ID is the connection id, assigned at transport-level connect.
	ID string

	// Identity is nil until the authenticate event succeeds. Only the
	// readPump goroutine touches it.
	Identity *dto.Identity

	// roomId is guarded by Hub.mu; use Hub.JoinRoom / Hub.RoomOf.
	roomId string

	// Buffered channel of outbound messages.
	Send chan []byte

	// sendMu/closed guard Send against enqueues racing its close. The
	// readPump keeps dispatching frames pipelined behind an unregister
	// (e.g. after a failed authenticate), so a late Enqueue must be a
	// drop, not a send on a closed channel.
	sendMu sync.Mutex
	closed bool
}

// Enqueue serializes an event to this client only. Best-effort: dropped
// if the send buffer is full or the connection is already unregistered.
func (c *Client) Enqueue(event string, data interface{}) {
	payload := EncodeEvent(event, data)
	if payload == nil {
		return
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// closeSend closes the outbound channel exactly once. Only the hub's
// unregister path calls this.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// readPump pumps messages from the websocket connection to the router.
func (c *Client) readPump(router *EventRouter) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"conn_id": c.ID, "error": err.Error()})
			}
			break
		}
		router.Dispatch(c, raw)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs wires a fresh connection into the hub and runs its pumps. The
// connection is unauthenticated until its first successful authenticate
// event.
func ServeWs(hub *Hub, router *EventRouter, conn *websocket.Conn) {
	client := &Client{
		Hub:  hub,
		Conn: conn,
		ID:   uuid.NewString(),
		Send: make(chan []byte, 256),
	}
	hub.Register(client)

	go client.writePump()
	client.readPump(router) // Run readPump in current goroutine (handler)
}
