package contract

import (
	"context"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CollaborationRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Collaboration, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Collaboration, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// InsertIfAbsent relies on the (chat_id, collaborator_id) unique index and
	// reports false when a row already existed.
	InsertIfAbsent(ctx context.Context, collab *entity.Collaboration) (bool, error)
	// UpdateAccessLevel changes the level only when it differs.
	UpdateAccessLevel(ctx context.Context, chatId, collaboratorId uuid.UUID, level entity.AccessLevel) (bool, error)
	Approve(ctx context.Context, chatId, collaboratorId uuid.UUID) (bool, error)
	DeleteWhere(ctx context.Context, specs ...specification.Specification) (int64, error)

	FindPendingInvitations(ctx context.Context, collaboratorId uuid.UUID) ([]*entity.PendingInvitation, error)
}
