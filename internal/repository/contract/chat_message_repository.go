package contract

import (
	"context"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/repository/specification"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	// CreateOnce inserts unless a row with the same (chat, client message id)
	// exists, in which case message is replaced by the stored row.
	CreateOnce(ctx context.Context, message *entity.ChatMessage) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
