package service

import (
	"context"
	"fmt"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const msgChatNotFound = "We couldn't find that chat session."

// DeletedChatPolicy decides whether a soft-deleted chat can still be reached by id.
// Listings ignore it and always leave deleted chats out.
type DeletedChatPolicy string

const (
	DeletedChatHidden      DeletedChatPolicy = "hidden"
	DeletedChatReadOnly    DeletedChatPolicy = "read_only"
	DeletedChatAddressable DeletedChatPolicy = "addressable"
)

func ParseDeletedChatPolicy(v string) (DeletedChatPolicy, error) {
	switch p := DeletedChatPolicy(v); p {
	case DeletedChatHidden, DeletedChatReadOnly, DeletedChatAddressable:
		return p, nil
	case "":
		return DeletedChatHidden, nil
	default:
		return "", fmt.Errorf("unknown deleted chat policy %q", v)
	}
}

type chatAccessMode int

const (
	chatRead chatAccessMode = iota
	chatWrite
)

// visible reports whether a chat in its current state may be addressed in mode.
func (p DeletedChatPolicy) visible(chat *entity.Chat, mode chatAccessMode) bool {
	if !chat.IsDeleted {
		return true
	}
	switch p {
	case DeletedChatAddressable:
		return true
	case DeletedChatReadOnly:
		return mode == chatRead
	default:
		return false
	}
}

// loadChat fetches a chat by id and applies the deleted chat policy. A chat
// the policy hides is reported exactly like a missing one.
func (p DeletedChatPolicy) loadChat(ctx context.Context, uow unitofwork.UnitOfWork, chatId uuid.UUID, mode chatAccessMode) (*entity.Chat, error) {
	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.IncludeDeleted{},
	)
	if err != nil {
		return nil, err
	}
	if chat == nil || !p.visible(chat, mode) {
		return nil, apperror.NotFound(msgChatNotFound)
	}
	return chat, nil
}
