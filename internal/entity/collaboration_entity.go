package entity

import (
	"time"

	"github.com/google/uuid"
)

// Permission is the effective access a user has on a chat.
type Permission int

const (
	PermissionNone Permission = iota
	PermissionView
	PermissionEdit
)

func (p Permission) String() string {
	switch p {
	case PermissionView:
		return "view"
	case PermissionEdit:
		return "edit"
	default:
		return "none"
	}
}

// Allows reports whether p satisfies the required level.
func (p Permission) Allows(required Permission) bool {
	return p >= required
}

// AccessLevel is the level stored on a collaboration row.
type AccessLevel string

const (
	AccessLevelView AccessLevel = "view"
	AccessLevelEdit AccessLevel = "edit"
)

func (a AccessLevel) Valid() bool {
	return a == AccessLevelView || a == AccessLevelEdit
}

func (a AccessLevel) Permission() Permission {
	switch a {
	case AccessLevelEdit:
		return PermissionEdit
	case AccessLevelView:
		return PermissionView
	default:
		return PermissionNone
	}
}

// Collaboration links a chat to a non-owner user. At most one row exists per
// (chat, collaborator) and an unapproved row grants nothing.
type Collaboration struct {
	Id             uuid.UUID
	ChatId         uuid.UUID
	CollaboratorId uuid.UUID
	AddedById      uuid.UUID
	AccessLevel    AccessLevel
	IsApproved     bool
	AddedAt        time.Time
}

// PendingInvitation is a pending row joined with its chat and owner.
type PendingInvitation struct {
	ChatId        uuid.UUID
	Title         string
	OwnerId       uuid.UUID
	OwnerUsername string
	OwnerEmail    string
	AddedAt       time.Time
}
