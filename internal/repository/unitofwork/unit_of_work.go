package unitofwork

import (
	"context"

	"chatshare-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatRepository() contract.ChatRepository
	ChatMessageRepository() contract.ChatMessageRepository
	CollaborationRepository() contract.CollaborationRepository
	GuestCounterRepository() contract.GuestCounterStore
	SpeechRepository() contract.SpeechRepository
	PaymentRepository() contract.PaymentRepository
}
