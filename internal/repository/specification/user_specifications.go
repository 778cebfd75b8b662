package specification

import (
	"strings"

	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(email) = ?", strings.ToLower(s.Email))
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// ByLogin matches a username or an email address.
type ByLogin struct {
	Identifier string
}

func (s ByLogin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ? OR LOWER(email) = ?", s.Identifier, strings.ToLower(s.Identifier))
}

// UserSearch is a case-insensitive substring match on username or email.
type UserSearch struct {
	Query string
}

func (s UserSearch) Apply(db *gorm.DB) *gorm.DB {
	if s.Query == "" {
		return db
	}
	pattern := "%" + strings.ToLower(s.Query) + "%"
	return db.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
}

type ExcludeID struct {
	ID uuid.UUID
}

func (s ExcludeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id <> ?", s.ID)
}

type ByReference struct {
	Reference string
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference = ?", s.Reference)
}
