package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	CollaborationInvited       = "collaboration.invited"
	CollaborationAccessChanged = "collaboration.access_changed"
	CollaborationApproved      = "collaboration.approved"
	CollaborationRejected      = "collaboration.rejected"
	CollaborationRemoved       = "collaboration.removed"
	ChatDeleted                = "chat.deleted"
)

// Payload keys shared by the collaboration events.
const (
	KeyChatID      = "chat_id"
	KeyChatTitle   = "chat_title"
	KeyActorID     = "actor_id"
	KeyActorName   = "actor_username"
	KeyRecipientID = "recipient_id"
	KeyEmail       = "recipient_email"
	KeyAccessLevel = "access_level"
)

// CollaborationEvent describes a transition on one collaboration row. The
// recipient is the user who should hear about it.
type CollaborationEvent struct {
	Type          string
	ChatId        uuid.UUID
	ChatTitle     string
	ActorId       uuid.UUID
	ActorUsername string
	RecipientId   uuid.UUID
	Email         string
	AccessLevel   string
	OccurredAt    time.Time
}

func (e CollaborationEvent) EventType() string {
	return e.Type
}

func (e CollaborationEvent) Payload() map[string]interface{} {
	data := map[string]interface{}{
		KeyChatID:      e.ChatId.String(),
		KeyChatTitle:   e.ChatTitle,
		KeyActorID:     e.ActorId.String(),
		KeyActorName:   e.ActorUsername,
		KeyRecipientID: e.RecipientId.String(),
	}
	if e.Email != "" {
		data[KeyEmail] = e.Email
	}
	if e.AccessLevel != "" {
		data[KeyAccessLevel] = e.AccessLevel
	}
	return data
}

func (e CollaborationEvent) Timestamp() time.Time {
	if e.OccurredAt.IsZero() {
		return time.Now()
	}
	return e.OccurredAt
}

// StringField reads a string entry from an event payload.
func StringField(e Event, key string) string {
	if v, ok := e.Payload()[key].(string); ok {
		return v
	}
	return ""
}
