package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RoomId    string    `gorm:"type:varchar(128);not null;index:idx_chat_messages_room_created,priority:1"`
	SenderId  uuid.UUID `gorm:"type:uuid;not null;index"`
	Sender    User      `gorm:"foreignKey:SenderId"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_chat_messages_room_created,priority:2"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
