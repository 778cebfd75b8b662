package contract

import (
	"context"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/repository/specification"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.UserPayment) error
	Update(ctx context.Context, payment *entity.UserPayment) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserPayment, error)
	// Transition moves a payment that is not yet successful to status and
	// reports whether a row changed.
	Transition(ctx context.Context, reference string, status entity.PaymentStatus, raw []byte) (bool, error)
}
