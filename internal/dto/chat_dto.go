package dto

import (
	"time"

	"github.com/google/uuid"
)

type PostMessageRequest struct {
	Prompt          string     `json:"prompt"`
	ChatId          *uuid.UUID `json:"chat_id"`
	GuestId         string     `json:"guest_id"`
	ClientMessageId string     `json:"client_message_id" validate:"omitempty,max=64"`
	Context         string     `json:"context" validate:"omitempty,max=255"`
	FileId          *uuid.UUID `json:"file_id"`
}

type PostMessageResponse struct {
	ChatId        *uuid.UUID `json:"chat_id"`
	MessageId     *uuid.UUID `json:"message_id,omitempty"`
	Response      string     `json:"response,omitempty"`
	LimitExceeded bool       `json:"limit_exceeded"`
	Message       string     `json:"message,omitempty"`
}

type StartChatResponse struct {
	ChatId  uuid.UUID `json:"chat_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

type ChatListItem struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	IsOwner   bool      `json:"is_owner"`
}

type ChatMessageItem struct {
	Id        uuid.UUID  `json:"id"`
	Prompt    string     `json:"prompt"`
	Response  string     `json:"response"`
	Timestamp time.Time  `json:"timestamp"`
	Context   string     `json:"context"`
	FileId    *uuid.UUID `json:"file_id,omitempty"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" validate:"max=255"`
}

type ChatTitleResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type CommitTitleRequest struct {
	ChatId *uuid.UUID `json:"chat_id"`
}
