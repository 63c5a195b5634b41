package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"pulse-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PresenceListener is notified when a connection leaves a room (switch or
// disconnect) so per-connection state held elsewhere can be purged.
// Implemented by the engagement buffer manager.
type PresenceListener interface {
	ConnectionLeft(roomId, connId string)
}

type Hub struct {
	// Registered clients map: connection id -> Client
	clients map[string]*Client

	// Room membership: room id -> connection id -> Client. Many
	// connections (same or different users, multiple tabs) share a room.
	rooms map[string]map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fanout (nil = local only)
	rdb *redis.Client

	// instanceId marks our own Redis publishes so we don't re-deliver them.
	instanceId string

	presence PresenceListener

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, presence PresenceListener, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		rdb:        rdb,
		instanceId: uuid.NewString(),
		presence:   presence,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"conn_id": client.ID})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				h.leaveRoomLocked(client)
				client.closeSend()
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"conn_id": client.ID})
			}
			h.mu.Unlock()
		}
	}
}

// Register queues a client for registration.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister queues a client for removal. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom moves the client into the room, leaving any previous room
// first; leaving orphans the connection's buffered samples. Returns
// false when the client was already in the room.
func (h *Hub) JoinRoom(client *Client, roomId string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.roomId == roomId {
		return false
	}
	h.leaveRoomLocked(client)

	room, ok := h.rooms[roomId]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[roomId] = room
	}
	room[client.ID] = client
	client.roomId = roomId
	return true
}

// RoomOf returns the client's current room id, or "" before any join.
func (h *Hub) RoomOf(client *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client.roomId
}

func (h *Hub) leaveRoomLocked(client *Client) {
	if client.roomId == "" {
		return
	}
	if room, ok := h.rooms[client.roomId]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, client.roomId)
		}
	}
	if h.presence != nil {
		h.presence.ConnectionLeft(client.roomId, client.ID)
	}
	client.roomId = ""
}

// BroadcastRoom delivers the event to every connection currently in the
// room. Best-effort: clients with a full send buffer are dropped.
func (h *Hub) BroadcastRoom(roomId string, event string, data interface{}) {
	payload := EncodeEvent(event, data)
	if payload == nil {
		h.logger.Error("Hub", "Failed to encode broadcast event", map[string]interface{}{"event": event})
		return
	}

	h.deliverLocal(roomId, payload)

	// Publish to Redis for other instances
	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":  h.instanceId,
			"room_id": roomId,
			"message": json.RawMessage(payload),
		})
		h.rdb.Publish(context.Background(), "room_events", envelope)
	}
}

func (h *Hub) deliverLocal(roomId string, payload []byte) {
	var dead []*Client

	h.mu.RLock()
	for _, client := range h.rooms[roomId] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"conn_id": client.ID})
			dead = append(dead, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dead {
		h.unregister <- client
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared room_events channel and
	// fans messages out to whatever members of the room it holds locally.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "room_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			Origin  string          `json:"origin"`
			RoomId  string          `json:"room_id"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		if payload.Origin == h.instanceId {
			continue
		}

		h.deliverLocal(payload.RoomId, payload.Message)
	}
}
