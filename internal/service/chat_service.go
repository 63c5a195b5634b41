package service

import (
	"context"
	"errors"
	"time"

	"pulse-chat-be/internal/dto"
	"pulse-chat-be/internal/model"
	"pulse-chat-be/internal/repository/contract"

	"github.com/google/uuid"
)

// DefaultHistoryLimit caps room history reads.
const DefaultHistoryLimit = 200

type IChatService interface {
	Post(ctx context.Context, roomId string, sender *dto.Identity, text string) (*dto.ChatMessageResponse, error)
	History(ctx context.Context, roomId string, limit int) ([]*dto.ChatMessageResponse, error)
}

type chatService struct {
	messages contract.ChatMessageRepository
}

func NewChatService(messages contract.ChatMessageRepository) IChatService {
	return &chatService{messages: messages}
}

func (s *chatService) Post(ctx context.Context, roomId string, sender *dto.Identity, text string) (*dto.ChatMessageResponse, error) {
	if text == "" {
		return nil, errors.New("empty message")
	}

	msg := &model.ChatMessage{
		Id:        uuid.New(),
		RoomId:    roomId,
		SenderId:  sender.Id,
		Content:   text,
		CreatedAt: time.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	return &dto.ChatMessageResponse{
		Id:        msg.Id,
		Text:      msg.Content,
		CreatedAt: msg.CreatedAt,
		From:      *sender,
	}, nil
}

func (s *chatService) History(ctx context.Context, roomId string, limit int) ([]*dto.ChatMessageResponse, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	models, err := s.messages.FindByRoom(ctx, roomId, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ChatMessageResponse, len(models))
	for i, m := range models {
		out[i] = &dto.ChatMessageResponse{
			Id:        m.Id,
			Text:      m.Content,
			CreatedAt: m.CreatedAt,
			From: dto.Identity{
				Id:       m.SenderId,
				FullName: m.Sender.FullName,
				Email:    m.Sender.Email,
			},
		}
	}
	return out, nil
}
