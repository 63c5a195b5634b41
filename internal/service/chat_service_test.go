package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulse-chat-be/internal/dto"
	"pulse-chat-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	createErr error
	messages  []*model.ChatMessage
	lastLimit int
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *model.ChatMessage) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) FindByRoom(ctx context.Context, roomId string, limit int) ([]*model.ChatMessage, error) {
	f.lastLimit = limit
	var out []*model.ChatMessage
	for _, m := range f.messages {
		if m.RoomId == roomId {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestChatService_Post(t *testing.T) {
	sender := &dto.Identity{Id: uuid.New(), FullName: "Alice", Email: "alice@example.com"}

	t.Run("persists and returns the resolved view", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		svc := NewChatService(repo)

		msg, err := svc.Post(context.Background(), "room-1", sender, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Text)
		assert.Equal(t, sender.Id, msg.From.Id)
		assert.NotEqual(t, uuid.Nil, msg.Id)
		assert.False(t, msg.CreatedAt.IsZero())

		require.Len(t, repo.messages, 1)
		assert.Equal(t, "room-1", repo.messages[0].RoomId)
		assert.Equal(t, sender.Id, repo.messages[0].SenderId)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		svc := NewChatService(&fakeMessageRepo{})
		_, err := svc.Post(context.Background(), "room-1", sender, "")
		assert.Error(t, err)
	})

	t.Run("repository failure surfaces", func(t *testing.T) {
		svc := NewChatService(&fakeMessageRepo{createErr: errors.New("db down")})
		_, err := svc.Post(context.Background(), "room-1", sender, "hello")
		assert.Error(t, err)
	})
}

func TestChatService_History(t *testing.T) {
	aliceId := uuid.New()
	repo := &fakeMessageRepo{
		messages: []*model.ChatMessage{
			{
				Id:        uuid.New(),
				RoomId:    "room-1",
				SenderId:  aliceId,
				Sender:    model.User{Id: aliceId, FullName: "Alice", Email: "alice@example.com"},
				Content:   "first",
				CreatedAt: time.Now().Add(-time.Minute),
			},
			{
				Id:       uuid.New(),
				RoomId:   "room-2",
				SenderId: aliceId,
				Content:  "elsewhere",
			},
		},
	}
	svc := NewChatService(repo)

	t.Run("maps sender identity", func(t *testing.T) {
		history, err := svc.History(context.Background(), "room-1", 10)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "first", history[0].Text)
		assert.Equal(t, "Alice", history[0].From.FullName)
	})

	t.Run("limit clamped to the default cap", func(t *testing.T) {
		_, err := svc.History(context.Background(), "room-1", 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultHistoryLimit, repo.lastLimit)

		_, err = svc.History(context.Background(), "room-1", 10000)
		require.NoError(t, err)
		assert.Equal(t, DefaultHistoryLimit, repo.lastLimit)
	})
}
