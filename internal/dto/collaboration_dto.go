package dto

import (
	"time"

	"github.com/google/uuid"
)

type InviteCollaboratorsRequest struct {
	UserIds     []uuid.UUID `json:"user_ids"`
	Email       string      `json:"email" validate:"omitempty,email"`
	AccessLevel string      `json:"access_level"`
}

type ShareByEmailRequest struct {
	Email       string `json:"email" validate:"required,email"`
	AccessLevel string `json:"access_level"`
}

type InviteCollaboratorsResponse struct {
	Message string    `json:"message"`
	Added   []UserRef `json:"added"`
	Updated []UserRef `json:"updated"`
	Skipped []string  `json:"skipped"`
}

type RemoveCollaboratorRequest struct {
	Username string     `json:"username"`
	UserId   *uuid.UUID `json:"user_id"`
}

type PendingInvitationResponse struct {
	Id      uuid.UUID    `json:"id"`
	Title   string       `json:"title"`
	Owner   UserResponse `json:"owner"`
	AddedAt time.Time    `json:"added_at"`
}

type CollaboratorResponse struct {
	Id           uuid.UUID    `json:"id"`
	ChatId       uuid.UUID    `json:"chat"`
	Collaborator UserResponse `json:"collaborator"`
	AddedBy      UserResponse `json:"added_by"`
	AccessLevel  string       `json:"access_level"`
	IsApproved   bool         `json:"is_approved"`
	AddedAt      time.Time    `json:"added_at"`
	IsOwner      bool         `json:"is_owner"`
}
