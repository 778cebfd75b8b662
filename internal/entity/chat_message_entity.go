package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one prompt/response exchange. Rows are never updated.
type ChatMessage struct {
	Id              uuid.UUID
	ChatId          uuid.UUID
	UserId          uuid.UUID
	Prompt          string
	Response        string
	Context         string
	FileId          *uuid.UUID
	ClientMessageId *string
	Timestamp       time.Time
}
