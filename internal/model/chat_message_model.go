package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage rows are unique per (chat, client message id) so a retried
// request cannot store the same reply twice. Rows without a client id are
// not constrained.
type ChatMessage struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ChatId          uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_chat_messages_client_id,priority:1"`
	UserId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	Prompt          string     `gorm:"type:text;not null"`
	Response        string     `gorm:"type:text;not null"`
	Context         string     `gorm:"type:varchar(255);not null;default:''"`
	FileId          *uuid.UUID `gorm:"type:uuid"`
	ClientMessageId *string    `gorm:"type:varchar(64);uniqueIndex:idx_chat_messages_client_id,priority:2"`
	Timestamp       time.Time  `gorm:"autoCreateTime;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	return nil
}
