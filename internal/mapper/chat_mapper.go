package mapper

import (
	"time"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Chat Mappers

func (m *ChatMapper) ChatToEntity(c *model.Chat) *entity.Chat {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.Chat{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: deletedAt,
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatToModel(c *entity.Chat) *model.Chat {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.Chat{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ChatMapper) ChatsToEntities(chats []*model.Chat) []*entity.Chat {
	entities := make([]*entity.Chat, len(chats))
	for i, c := range chats {
		entities[i] = m.ChatToEntity(c)
	}
	return entities
}

// Message Mappers

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:              msg.Id,
		ChatId:          msg.ChatId,
		UserId:          msg.UserId,
		Prompt:          msg.Prompt,
		Response:        msg.Response,
		Context:         msg.Context,
		FileId:          msg.FileId,
		ClientMessageId: msg.ClientMessageId,
		Timestamp:       msg.Timestamp,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:              msg.Id,
		ChatId:          msg.ChatId,
		UserId:          msg.UserId,
		Prompt:          msg.Prompt,
		Response:        msg.Response,
		Context:         msg.Context,
		FileId:          msg.FileId,
		ClientMessageId: msg.ClientMessageId,
		Timestamp:       msg.Timestamp,
	}
}

func (m *ChatMapper) MessagesToEntities(messages []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(messages))
	for i, msg := range messages {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}
