package service

import (
	"context"
	"strings"
	"time"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/entity"
	"chatshare-be/internal/metrics"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/pkg/logger"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/internal/repository/unitofwork"
	"chatshare-be/pkg/events"
	"chatshare-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	msgEmptyPrompt        = "Please enter a message to begin."
	msgGuestMissing       = "Guest session expired. Please refresh and try again."
	msgGuestInvalid       = "Invalid guest session ID. Please refresh the page."
	MsgGuestLimitExceeded = "You've reached your guest chat limit. Please log in to continue."
	msgLLMUnavailable     = "We're having trouble responding. Please try again shortly."
	msgNoChatAccess       = "You do not have access to this chat."
	msgNoModifyRight      = "You don't have permission to modify this chat."
	msgNoDeleteRight      = "You do not have permission to delete this chat."
	msgTitleRequired      = "Title is required."
	msgNotEnoughMessages  = "At least two messages are required to generate a title."
	MsgNewChatStarted     = "New chat started."
)

type IChatService interface {
	// PostMessage answers one prompt. A nil userId is a guest turn, which is
	// metered and never stored.
	PostMessage(ctx context.Context, userId *uuid.UUID, req *dto.PostMessageRequest, ip string) (*dto.PostMessageResponse, error)
	StartChat(ctx context.Context, userId uuid.UUID) (*dto.StartChatResponse, error)
	ListChats(ctx context.Context, userId uuid.UUID) ([]*dto.ChatListItem, error)
	GetMessages(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.ChatMessageItem, error)
	UpdateTitle(ctx context.Context, userId, chatId uuid.UUID, req *dto.UpdateTitleRequest) (*dto.ChatTitleResponse, error)
	DeleteChat(ctx context.Context, userId, chatId uuid.UUID) error
	CommitTitle(ctx context.Context, userId, chatId uuid.UUID) (*dto.ChatTitleResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.LLMProvider
	access     IAccessEvaluator
	limiter    IGuestLimiter
	summarizer ITitleSummarizer
	publisher  IPublisherService
	policy     DeletedChatPolicy
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.LLMProvider,
	access IAccessEvaluator,
	limiter IGuestLimiter,
	summarizer ITitleSummarizer,
	publisher IPublisherService,
	policy DeletedChatPolicy,
	log logger.ILogger,
) IChatService {
	if policy == "" {
		policy = DeletedChatHidden
	}
	return &chatService{
		uowFactory: uowFactory,
		provider:   provider,
		access:     access,
		limiter:    limiter,
		summarizer: summarizer,
		publisher:  publisher,
		policy:     policy,
		logger:     log,
	}
}

// ask sends the prompt as a single user message.
func (s *chatService) ask(ctx context.Context, prompt string) (string, error) {
	reply, err := s.provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		metrics.Global().LLMFailures.Inc()
		s.logger.Error("ChatService", "LLM call failed", map[string]interface{}{
			"error": err.Error(),
		})
		return "", apperror.Upstream(msgLLMUnavailable, err)
	}
	return reply, nil
}

func (s *chatService) PostMessage(ctx context.Context, userId *uuid.UUID, req *dto.PostMessageRequest, ip string) (*dto.PostMessageResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, apperror.Validation(msgEmptyPrompt)
	}
	if userId == nil {
		return s.guestTurn(ctx, prompt, req.GuestId, ip)
	}
	return s.userTurn(ctx, *userId, prompt, req)
}

func (s *chatService) guestTurn(ctx context.Context, prompt, rawGuestId, ip string) (*dto.PostMessageResponse, error) {
	rawGuestId = strings.TrimSpace(rawGuestId)
	if rawGuestId == "" {
		return nil, apperror.Validation(msgGuestMissing)
	}
	guestId, err := uuid.Parse(rawGuestId)
	if err != nil {
		return nil, apperror.Validation(msgGuestInvalid)
	}

	var reply string
	decision, err := s.limiter.CheckAndIncrement(ctx, guestId, ip, func(ctx context.Context) error {
		var askErr error
		reply, askErr = s.ask(ctx, prompt)
		return askErr
	})
	if err != nil {
		return nil, err
	}
	if decision == GuestLimitExceeded {
		return &dto.PostMessageResponse{
			LimitExceeded: true,
			Message:       MsgGuestLimitExceeded,
		}, nil
	}

	metrics.Global().ChatTurns.WithLabelValues("guest").Inc()
	return &dto.PostMessageResponse{
		ChatId:        nil,
		Response:      reply,
		LimitExceeded: false,
	}, nil
}

func (s *chatService) userTurn(ctx context.Context, userId uuid.UUID, prompt string, req *dto.PostMessageRequest) (*dto.PostMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var clientMessageId *string
	if id := strings.TrimSpace(req.ClientMessageId); id != "" {
		clientMessageId = &id
	}

	var chat *entity.Chat
	if req.ChatId != nil {
		var err error
		chat, err = s.policy.loadChat(ctx, uow, *req.ChatId, chatWrite)
		if err != nil {
			return nil, err
		}
		perm, err := s.access.Evaluate(ctx, uow, chat, userId)
		if err != nil {
			return nil, err
		}
		if err := RequirePermission(perm, entity.PermissionEdit, msgNoChatAccess, msgNoModifyRight); err != nil {
			return nil, err
		}

		// A retried request gets the stored reply instead of a second LLM call.
		if clientMessageId != nil {
			existing, err := uow.ChatMessageRepository().FindOne(ctx,
				specification.ByChatID{ChatID: chat.Id},
				specification.ByClientMessageID{ClientMessageID: *clientMessageId},
			)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return messageResponse(existing), nil
			}
		}
	}

	reply, err := s.ask(ctx, prompt)
	if err != nil {
		return nil, err
	}
	metrics.Global().ChatTurns.WithLabelValues("user").Inc()

	msg := &entity.ChatMessage{
		UserId:          userId,
		Prompt:          prompt,
		Response:        reply,
		Context:         req.Context,
		FileId:          req.FileId,
		ClientMessageId: clientMessageId,
		Timestamp:       time.Now(),
	}
	saved, err := s.saveTurn(ctx, uow, chat, userId, msg)
	if err != nil {
		// The caller still gets the answer; only the history is lost.
		s.logger.Error("ChatService", "Failed to save chat history", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		resp := &dto.PostMessageResponse{Response: reply}
		if chat != nil {
			resp.ChatId = &chat.Id
		}
		return resp, nil
	}
	return messageResponse(saved), nil
}

// saveTurn stores the exchange and bumps the chat in one transaction,
// creating the chat first when the turn opened a new conversation.
func (s *chatService) saveTurn(ctx context.Context, uow unitofwork.UnitOfWork, chat *entity.Chat, userId uuid.UUID, msg *entity.ChatMessage) (*entity.ChatMessage, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if chat == nil {
		chat = &entity.Chat{UserId: userId, Title: entity.DefaultChatTitle}
		if err := uow.ChatRepository().Create(ctx, chat); err != nil {
			return nil, err
		}
	}
	msg.ChatId = chat.Id

	if _, err := uow.ChatMessageRepository().CreateOnce(ctx, msg); err != nil {
		return nil, err
	}
	if err := uow.ChatRepository().Touch(ctx, chat.Id); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

func messageResponse(msg *entity.ChatMessage) *dto.PostMessageResponse {
	chatId := msg.ChatId
	messageId := msg.Id
	return &dto.PostMessageResponse{
		ChatId:        &chatId,
		MessageId:     &messageId,
		Response:      msg.Response,
		LimitExceeded: false,
	}
}

func (s *chatService) StartChat(ctx context.Context, userId uuid.UUID) (*dto.StartChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat := &entity.Chat{UserId: userId, Title: entity.DefaultChatTitle}
	if err := uow.ChatRepository().Create(ctx, chat); err != nil {
		return nil, err
	}
	return &dto.StartChatResponse{
		ChatId:  chat.Id,
		Title:   chat.Title,
		Message: MsgNewChatStarted,
	}, nil
}

func (s *chatService) ListChats(ctx context.Context, userId uuid.UUID) ([]*dto.ChatListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.AccessibleBy{UserID: userId},
		specification.RecentlyUpdated{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatListItem, 0, len(chats))
	for _, chat := range chats {
		res = append(res, &dto.ChatListItem{
			Id:        chat.Id,
			Title:     chat.Title,
			UpdatedAt: chat.UpdatedAt,
			IsOwner:   chat.IsOwner(userId),
		})
	}
	return res, nil
}

// authorize loads a chat in mode and checks the caller holds required on it.
func (s *chatService) authorize(ctx context.Context, uow unitofwork.UnitOfWork, userId, chatId uuid.UUID, mode chatAccessMode, required entity.Permission, denied string) (*entity.Chat, error) {
	chat, err := s.policy.loadChat(ctx, uow, chatId, mode)
	if err != nil {
		return nil, err
	}
	perm, err := s.access.Evaluate(ctx, uow, chat, userId)
	if err != nil {
		return nil, err
	}
	if err := RequirePermission(perm, required, msgNoChatAccess, denied); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *chatService) GetMessages(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.ChatMessageItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.authorize(ctx, uow, userId, chatId, chatRead, entity.PermissionView, msgNoChatAccess)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.ChronologicalMessages{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatMessageItem, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.ChatMessageItem{
			Id:        m.Id,
			Prompt:    m.Prompt,
			Response:  m.Response,
			Timestamp: m.Timestamp,
			Context:   m.Context,
			FileId:    m.FileId,
		})
	}
	return res, nil
}

func (s *chatService) UpdateTitle(ctx context.Context, userId, chatId uuid.UUID, req *dto.UpdateTitleRequest) (*dto.ChatTitleResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.Validation(msgTitleRequired)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.authorize(ctx, uow, userId, chatId, chatWrite, entity.PermissionEdit, msgNoModifyRight)
	if err != nil {
		return nil, err
	}

	chat.Title = title
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return nil, err
	}
	return &dto.ChatTitleResponse{Id: chat.Id, Title: chat.Title}, nil
}

func (s *chatService) DeleteChat(ctx context.Context, userId, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.authorize(ctx, uow, userId, chatId, chatWrite, entity.PermissionEdit, msgNoDeleteRight)
	if err != nil {
		return err
	}

	collabs, err := uow.CollaborationRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.ApprovedOnly{},
	)
	if err != nil {
		return err
	}

	if err := uow.ChatRepository().Delete(ctx, chat.Id); err != nil {
		return err
	}

	// Everyone who could see the chat, except the caller, hears about it.
	recipients := []uuid.UUID{chat.UserId}
	for _, c := range collabs {
		recipients = append(recipients, c.CollaboratorId)
	}
	var evts []events.Event
	for _, recipient := range recipients {
		if recipient == userId {
			continue
		}
		evts = append(evts, events.CollaborationEvent{
			Type:        events.ChatDeleted,
			ChatId:      chat.Id,
			ChatTitle:   chat.Title,
			ActorId:     userId,
			RecipientId: recipient,
			OccurredAt:  time.Now(),
		})
	}
	publishAll(ctx, s.publisher, s.logger, "ChatService", evts)
	return nil
}

func (s *chatService) CommitTitle(ctx context.Context, userId, chatId uuid.UUID) (*dto.ChatTitleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.authorize(ctx, uow, userId, chatId, chatWrite, entity.PermissionEdit, msgNoModifyRight)
	if err != nil {
		return nil, err
	}

	first, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.ChronologicalMessages{},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 {
		return nil, apperror.Validation(msgNotEnoughMessages)
	}

	title := ""
	if s.summarizer != nil {
		title = s.summarizer.Summarize(ctx, first[0].Prompt, first[0].Response)
	}
	if title == "" {
		title = entity.DefaultChatTitle
	}

	chat.Title = title
	if err := uow.ChatRepository().Update(ctx, chat); err != nil {
		return nil, err
	}
	return &dto.ChatTitleResponse{Id: chat.Id, Title: chat.Title}, nil
}
