package specification

import (
	"chatshare-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatID struct {
	ChatID uuid.UUID
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

// AccessibleBy matches chats the user owns or holds an approved collaboration on.
type AccessibleBy struct {
	UserID uuid.UUID
}

func (s AccessibleBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"user_id = ? OR id IN (SELECT chat_id FROM collaborations WHERE collaborator_id = ? AND is_approved = ?)",
		s.UserID, s.UserID, true,
	)
}

// IncludeDeleted disables the soft delete filter for by-id lookups.
type IncludeDeleted struct{}

func (s IncludeDeleted) Apply(db *gorm.DB) *gorm.DB {
	return scope.WithSoftDelete(db)
}

type ByClientMessageID struct {
	ClientMessageID string
}

func (s ByClientMessageID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("client_message_id = ?", s.ClientMessageID)
}

// ChronologicalMessages orders history oldest first.
type ChronologicalMessages struct{}

func (s ChronologicalMessages) Apply(db *gorm.DB) *gorm.DB {
	return scope.OrderByTimestampAsc(db)
}

type RecentlyUpdated struct{}

func (s RecentlyUpdated) Apply(db *gorm.DB) *gorm.DB {
	return scope.OrderByUpdatedDesc(db)
}
