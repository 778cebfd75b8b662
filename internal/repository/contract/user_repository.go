package contract

import (
	"context"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Profile
	FindProfile(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error)
	SaveProfile(ctx context.Context, profile *entity.UserProfile) error
	AddAudioMinutes(ctx context.Context, userId uuid.UUID, minutes float64) error
}
