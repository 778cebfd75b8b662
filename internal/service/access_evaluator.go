package service

import (
	"context"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IAccessEvaluator resolves the effective permission a user holds on a chat.
// It never fails with a permission error; callers decide what level they need.
type IAccessEvaluator interface {
	Evaluate(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.Chat, userId uuid.UUID) (entity.Permission, error)
}

type accessEvaluator struct{}

func NewAccessEvaluator() IAccessEvaluator {
	return &accessEvaluator{}
}

func (e *accessEvaluator) Evaluate(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.Chat, userId uuid.UUID) (entity.Permission, error) {
	if chat == nil {
		return entity.PermissionNone, nil
	}
	if chat.IsOwner(userId) {
		return entity.PermissionEdit, nil
	}

	collab, err := uow.CollaborationRepository().FindOne(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.ByCollaboratorID{CollaboratorID: userId},
	)
	if err != nil {
		return entity.PermissionNone, err
	}
	return ResolvePermission(chat, userId, collab), nil
}

// ResolvePermission is the access rule on already loaded rows. The owner holds
// EDIT; anyone else gets the level of their approved collaboration, if any.
func ResolvePermission(chat *entity.Chat, userId uuid.UUID, collab *entity.Collaboration) entity.Permission {
	if chat == nil {
		return entity.PermissionNone
	}
	if chat.IsOwner(userId) {
		return entity.PermissionEdit
	}
	if collab == nil || !collab.IsApproved || collab.ChatId != chat.Id || collab.CollaboratorId != userId {
		return entity.PermissionNone
	}
	return collab.AccessLevel.Permission()
}

// RequirePermission turns an insufficient level into a Forbidden error.
// Callers without any access get noAccess, those short of required get denied.
func RequirePermission(have, required entity.Permission, noAccess, denied string) error {
	if have.Allows(required) {
		return nil
	}
	if have == entity.PermissionNone {
		return apperror.Forbidden(noAccess)
	}
	return apperror.Forbidden(denied)
}
