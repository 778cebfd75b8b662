package specification

import (
	"chatshare-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCollaboratorID struct {
	CollaboratorID uuid.UUID
}

func (s ByCollaboratorID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collaborator_id = ?", s.CollaboratorID)
}

type PendingOnly struct{}

func (s PendingOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_approved = ?", false)
}

type ApprovedOnly struct{}

func (s ApprovedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_approved = ?", true)
}

// OldestAddedFirst orders collaborator rows by when they were invited.
type OldestAddedFirst struct{}

func (s OldestAddedFirst) Apply(db *gorm.DB) *gorm.DB {
	return scope.OrderByAddedAsc(db)
}
