package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type UserPayment struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Reference   string
	Amount      int64
	Status      PaymentStatus
	SnapToken   string
	RedirectURL string
	RawResponse []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
