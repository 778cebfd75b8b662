package entity

import (
	"time"

	"github.com/google/uuid"
)

const DefaultChatTitle = "New Chat"

type Chat struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

func (c *Chat) IsOwner(userId uuid.UUID) bool {
	return c.UserId == userId
}
