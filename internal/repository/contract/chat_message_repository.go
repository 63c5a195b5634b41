package contract

import (
	"context"

	"pulse-chat-be/internal/model"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	// FindByRoom returns up to limit messages for the room, ordered by
	// creation time ascending.
	FindByRoom(ctx context.Context, roomId string, limit int) ([]*model.ChatMessage, error)
}
