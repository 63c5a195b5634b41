package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pulse-chat-be/internal/dto"
	"pulse-chat-be/internal/engagement"
	"pulse-chat-be/internal/pkg/logger"
)

// CredentialVerifier resolves a bearer credential to an identity.
// Implemented by the auth service.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*dto.Identity, error)
}

// MessagePoster persists a chat message and returns the resolved view.
// Implemented by the chat service.
type MessagePoster interface {
	Post(ctx context.Context, roomId string, sender *dto.Identity, text string) (*dto.ChatMessageResponse, error)
}

// EventRouter dispatches inbound realtime events to their handlers.
type EventRouter struct {
	hub      *Hub
	verifier CredentialVerifier
	poster   MessagePoster
	buffers  *engagement.BufferManager
	pipeline *engagement.Pipeline
	logger   logger.ILogger
}

func NewEventRouter(
	hub *Hub,
	verifier CredentialVerifier,
	poster MessagePoster,
	buffers *engagement.BufferManager,
	pipeline *engagement.Pipeline,
	log logger.ILogger,
) *EventRouter {
	return &EventRouter{
		hub:      hub,
		verifier: verifier,
		poster:   poster,
		buffers:  buffers,
		pipeline: pipeline,
		logger:   log,
	}
}

// Dispatch routes one inbound frame. Telemetry clients are best-effort,
// so malformed frames and unknown events are dropped silently.
func (r *EventRouter) Dispatch(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}

	switch env.Event {
	case EventAuthenticate:
		r.handleAuthenticate(c, env.Data)
	case EventJoinRoom:
		r.handleJoinRoom(c, env.Data)
	case EventChatMessage:
		r.handleChatMessage(c, env.Data)
	case EventBehaviorParams:
		r.handleBehaviorParams(c, env.Data)
	}
}

// handleAuthenticate attaches an identity to the connection. A bad
// credential gets an unauthorized event and the connection is closed,
// not merely rejected.
func (r *EventRouter) handleAuthenticate(c *Client, data json.RawMessage) {
	var payload AuthenticatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		r.rejectCredential(c)
		return
	}

	identity, err := r.verifier.Verify(context.Background(), payload.Token)
	if err != nil {
		r.rejectCredential(c)
		return
	}

	c.Identity = identity
	c.Enqueue(EventAuthenticated, identity)
}

func (r *EventRouter) rejectCredential(c *Client) {
	r.logger.Warn("EventRouter", "Authentication failed", map[string]interface{}{"conn_id": c.ID})
	c.Enqueue(EventUnauthorized, map[string]interface{}{"message": "authentication failed"})
	r.hub.Unregister(c)
}

func (r *EventRouter) handleJoinRoom(c *Client, data json.RawMessage) {
	if c.Identity == nil {
		c.Enqueue(EventError, map[string]interface{}{"message": "unauthorized"})
		return
	}

	var payload JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.TargetUserId == "" {
		c.Enqueue(EventError, map[string]interface{}{"message": "target user required"})
		return
	}

	roomId := RoomID(c.Identity.Id.String(), payload.TargetUserId)
	if !r.hub.JoinRoom(c, roomId) {
		// Already a member; don't re-announce.
		return
	}
	r.buffers.EnsureRoom(roomId)

	r.hub.BroadcastRoom(roomId, EventSystemMessage, map[string]interface{}{
		"text": fmt.Sprintf("%s joined the conversation", c.Identity.FullName),
		"ts":   time.Now(),
	})
}

func (r *EventRouter) handleChatMessage(c *Client, data json.RawMessage) {
	roomId, ok := r.requireRoom(c)
	if !ok {
		return
	}

	var payload ChatMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Text == "" {
		c.Enqueue(EventError, map[string]interface{}{"message": "empty message"})
		return
	}

	msg, err := r.poster.Post(context.Background(), roomId, c.Identity, payload.Text)
	if err != nil {
		r.logger.Error("EventRouter", "Failed to persist chat message", map[string]interface{}{
			"room_id": roomId,
			"error":   err.Error(),
		})
		// Persistence failure is reported to the sender only.
		c.Enqueue(EventError, map[string]interface{}{"message": "failed to save message"})
		return
	}

	r.hub.BroadcastRoom(roomId, EventChatMessage, msg)
}

func (r *EventRouter) handleBehaviorParams(c *Client, data json.RawMessage) {
	roomId, ok := r.requireRoom(c)
	if !ok {
		return
	}

	var payload BehaviorPayload
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Samples) == 0 {
		// Malformed telemetry is ignored, not errored.
		return
	}

	samples := engagement.NormalizeSamples(payload.Samples)
	r.buffers.Append(roomId, c.ID, samples)
	r.pipeline.Process(roomId)
}

// requireRoom enforces the authenticated-and-joined precondition shared
// by chat and telemetry events. Violations get an inline error; the
// connection stays open.
func (r *EventRouter) requireRoom(c *Client) (string, bool) {
	if c.Identity == nil {
		c.Enqueue(EventError, map[string]interface{}{"message": "unauthorized"})
		return "", false
	}
	roomId := r.hub.RoomOf(c)
	if roomId == "" {
		c.Enqueue(EventError, map[string]interface{}{"message": "not in a room"})
		return "", false
	}
	return roomId, true
}
