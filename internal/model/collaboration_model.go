package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Collaboration struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatId         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_collaborations_chat_user,priority:1"`
	CollaboratorId uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_collaborations_chat_user,priority:2"`
	AddedById      uuid.UUID `gorm:"type:uuid;not null"`
	AccessLevel    string    `gorm:"type:varchar(10);not null;default:'view'"`
	IsApproved     bool      `gorm:"not null;default:false"`
	AddedAt        time.Time `gorm:"autoCreateTime"`
}

func (Collaboration) TableName() string {
	return "collaborations"
}

func (c *Collaboration) BeforeCreate(tx *gorm.DB) error {
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	return nil
}

// PendingInvitationRow is the scan target of the pending invitation join.
type PendingInvitationRow struct {
	ChatId        uuid.UUID
	Title         string
	OwnerId       uuid.UUID
	OwnerUsername string
	OwnerEmail    string
	AddedAt       time.Time
}
