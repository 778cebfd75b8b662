package service

import (
	"context"
	"fmt"
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

	"github.com/google/uuid"
)

const (
	msgOnlyOwnerInvites     = "Only the owner can add collaborators."
	msgUserIdsRequired      = "user_ids must be a non-empty list."
	msgInvalidAccessLevel   = "Invalid access level."
	msgUsernameRequired     = "Username is required."
	msgCollabNotFound       = "Collaboration not found."
	msgRemoveNotAuthorized  = "You are not authorized to remove this collaborator."
	msgNoPendingInvitation  = "No pending invitation found."
	msgEmailUserNotFound    = "User with this email not found."
	msgCannotShareWithSelf  = "You cannot share the chat with yourself."
	msgCollaboratorsNoRight = "Not authorized."
)

type ICollaborationService interface {
	Invite(ctx context.Context, inviterId, chatId uuid.UUID, req *dto.InviteCollaboratorsRequest) (*dto.InviteCollaboratorsResponse, error)
	ShareByEmail(ctx context.Context, inviterId, chatId uuid.UUID, req *dto.ShareByEmailRequest) (*dto.InviteCollaboratorsResponse, error)
	Approve(ctx context.Context, userId, chatId uuid.UUID) error
	Reject(ctx context.Context, userId, chatId uuid.UUID) error
	Remove(ctx context.Context, actorId, chatId uuid.UUID, req *dto.RemoveCollaboratorRequest) (string, error)
	ListPending(ctx context.Context, userId uuid.UUID) ([]*dto.PendingInvitationResponse, error)
	ListCollaborators(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.CollaboratorResponse, error)
}

// CollaborationPolicy holds the deployment switches of the sharing workflow.
type CollaborationPolicy struct {
	CollaboratorsMayInvite bool
	DeletedChats           DeletedChatPolicy
}

type collaborationService struct {
	uowFactory unitofwork.RepositoryFactory
	access     IAccessEvaluator
	publisher  IPublisherService
	policy     CollaborationPolicy
	logger     logger.ILogger
}

func NewCollaborationService(
	uowFactory unitofwork.RepositoryFactory,
	access IAccessEvaluator,
	publisher IPublisherService,
	policy CollaborationPolicy,
	log logger.ILogger,
) ICollaborationService {
	if policy.DeletedChats == "" {
		policy.DeletedChats = DeletedChatHidden
	}
	return &collaborationService{
		uowFactory: uowFactory,
		access:     access,
		publisher:  publisher,
		policy:     policy,
		logger:     log,
	}
}

func parseAccessLevel(v string) (entity.AccessLevel, error) {
	if v == "" {
		return entity.AccessLevelView, nil
	}
	level := entity.AccessLevel(strings.ToLower(v))
	if !level.Valid() {
		return "", apperror.Validation(msgInvalidAccessLevel)
	}
	return level, nil
}

// upsertResult is what happened to one invitee.
type upsertResult int

const (
	upsertAdded upsertResult = iota
	upsertUpdated
	upsertUnchanged
)

// upsertCollaborator creates a pending row, or changes the level of an
// existing row in place. The approval state of an existing row is kept.
func upsertCollaborator(ctx context.Context, uow unitofwork.UnitOfWork, chatId, inviterId, inviteeId uuid.UUID, level entity.AccessLevel) (upsertResult, error) {
	repo := uow.CollaborationRepository()
	inserted, err := repo.InsertIfAbsent(ctx, &entity.Collaboration{
		ChatId:         chatId,
		CollaboratorId: inviteeId,
		AddedById:      inviterId,
		AccessLevel:    level,
		IsApproved:     false,
	})
	if err != nil {
		return upsertUnchanged, err
	}
	if inserted {
		return upsertAdded, nil
	}

	changed, err := repo.UpdateAccessLevel(ctx, chatId, inviteeId, level)
	if err != nil {
		return upsertUnchanged, err
	}
	if changed {
		return upsertUpdated, nil
	}
	return upsertUnchanged, nil
}

// authorizeInviter loads the chat for a sharing mutation and checks the caller may share it.
func (s *collaborationService) authorizeInviter(ctx context.Context, uow unitofwork.UnitOfWork, inviterId, chatId uuid.UUID) (*entity.Chat, error) {
	chat, err := s.policy.DeletedChats.loadChat(ctx, uow, chatId, chatWrite)
	if err != nil {
		return nil, err
	}
	if chat.IsOwner(inviterId) {
		return chat, nil
	}
	if s.policy.CollaboratorsMayInvite {
		perm, err := s.access.Evaluate(ctx, uow, chat, inviterId)
		if err != nil {
			return nil, err
		}
		if perm.Allows(entity.PermissionEdit) {
			return chat, nil
		}
	}
	return nil, apperror.Forbidden(msgOnlyOwnerInvites)
}

func (s *collaborationService) Invite(ctx context.Context, inviterId, chatId uuid.UUID, req *dto.InviteCollaboratorsRequest) (*dto.InviteCollaboratorsResponse, error) {
	level, err := parseAccessLevel(req.AccessLevel)
	if err != nil {
		return nil, err
	}
	if len(req.UserIds) == 0 && strings.TrimSpace(req.Email) == "" {
		return nil, apperror.Validation(msgUserIdsRequired)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.authorizeInviter(ctx, uow, inviterId, chatId)
	if err != nil {
		return nil, err
	}

	userRepo := uow.UserRepository()
	inviter, err := userRepo.FindOne(ctx, specification.ByID{ID: inviterId})
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, apperror.Unauthorized("User not found.")
	}

	resp := &dto.InviteCollaboratorsResponse{
		Added:   []dto.UserRef{},
		Updated: []dto.UserRef{},
		Skipped: []string{},
	}

	// Resolve invitees in request order, one entry per distinct user.
	var invitees []*entity.User
	seen := map[uuid.UUID]bool{}
	if len(req.UserIds) > 0 {
		found, err := userRepo.FindAll(ctx, specification.ByIDs{IDs: req.UserIds})
		if err != nil {
			return nil, err
		}
		byId := make(map[uuid.UUID]*entity.User, len(found))
		for _, u := range found {
			byId[u.Id] = u
		}
		for _, id := range req.UserIds {
			u, ok := byId[id]
			if !ok {
				resp.Skipped = append(resp.Skipped, id.String())
				continue
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			invitees = append(invitees, u)
		}
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		u, err := userRepo.FindOne(ctx, specification.ByEmail{Email: email})
		if err != nil {
			return nil, err
		}
		switch {
		case u == nil:
			resp.Skipped = append(resp.Skipped, email)
		case !seen[u.Id]:
			seen[u.Id] = true
			invitees = append(invitees, u)
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var pending []events.Event
	for _, invitee := range invitees {
		// The owner already holds EDIT and never gets a row.
		if invitee.Id == inviterId || chat.IsOwner(invitee.Id) {
			resp.Skipped = append(resp.Skipped, invitee.Username)
			continue
		}

		result, err := upsertCollaborator(ctx, uow, chat.Id, inviterId, invitee.Id, level)
		if err != nil {
			return nil, err
		}

		ref := dto.UserRef{Id: invitee.Id, Username: invitee.Username}
		switch result {
		case upsertAdded:
			resp.Added = append(resp.Added, ref)
			pending = append(pending, s.collabEvent(events.CollaborationInvited, chat, inviter, invitee, level))
		case upsertUpdated:
			resp.Updated = append(resp.Updated, ref)
			pending = append(pending, s.collabEvent(events.CollaborationAccessChanged, chat, inviter, invitee, level))
		default:
			resp.Skipped = append(resp.Skipped, invitee.Username)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.record(pending)
	publishAll(ctx, s.publisher, s.logger, "CollaborationService", pending)

	resp.Message = fmt.Sprintf("%d collaborators added.", len(resp.Added))
	return resp, nil
}

func (s *collaborationService) ShareByEmail(ctx context.Context, inviterId, chatId uuid.UUID, req *dto.ShareByEmailRequest) (*dto.InviteCollaboratorsResponse, error) {
	level, err := parseAccessLevel(req.AccessLevel)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.authorizeInviter(ctx, uow, inviterId, chatId)
	if err != nil {
		return nil, err
	}

	userRepo := uow.UserRepository()
	invitee, err := userRepo.FindOne(ctx, specification.ByEmail{Email: strings.TrimSpace(req.Email)})
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, apperror.NotFound(msgEmailUserNotFound)
	}
	if invitee.Id == inviterId || chat.IsOwner(invitee.Id) {
		return nil, apperror.Validation(msgCannotShareWithSelf)
	}

	inviter, err := userRepo.FindOne(ctx, specification.ByID{ID: inviterId})
	if err != nil {
		return nil, err
	}
	if inviter == nil {
		return nil, apperror.Unauthorized("User not found.")
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	result, err := upsertCollaborator(ctx, uow, chat.Id, inviterId, invitee.Id, level)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	ref := dto.UserRef{Id: invitee.Id, Username: invitee.Username}
	resp := &dto.InviteCollaboratorsResponse{
		Message: fmt.Sprintf("Chat shared with %s.", invitee.Username),
		Added:   []dto.UserRef{},
		Updated: []dto.UserRef{},
		Skipped: []string{},
	}

	var pending []events.Event
	switch result {
	case upsertAdded:
		resp.Added = append(resp.Added, ref)
		pending = append(pending, s.collabEvent(events.CollaborationInvited, chat, inviter, invitee, level))
	case upsertUpdated:
		resp.Updated = append(resp.Updated, ref)
		pending = append(pending, s.collabEvent(events.CollaborationAccessChanged, chat, inviter, invitee, level))
	default:
		resp.Skipped = append(resp.Skipped, invitee.Username)
	}

	s.record(pending)
	publishAll(ctx, s.publisher, s.logger, "CollaborationService", pending)
	return resp, nil
}

// pendingRow loads the caller's own pending invitation on a chat they can address.
func (s *collaborationService) pendingRow(ctx context.Context, uow unitofwork.UnitOfWork, userId, chatId uuid.UUID) (*entity.Chat, *entity.Collaboration, error) {
	chat, err := s.policy.DeletedChats.loadChat(ctx, uow, chatId, chatRead)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, nil, apperror.NotFound(msgNoPendingInvitation)
		}
		return nil, nil, err
	}

	collab, err := uow.CollaborationRepository().FindOne(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.ByCollaboratorID{CollaboratorID: userId},
		specification.PendingOnly{},
	)
	if err != nil {
		return nil, nil, err
	}
	if collab == nil {
		return nil, nil, apperror.NotFound(msgNoPendingInvitation)
	}
	return chat, collab, nil
}

func (s *collaborationService) Approve(ctx context.Context, userId, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, collab, err := s.pendingRow(ctx, uow, userId, chatId)
	if err != nil {
		return err
	}

	// The conditional update settles a race with a concurrent reject or remove.
	approved, err := uow.CollaborationRepository().Approve(ctx, chatId, userId)
	if err != nil {
		return err
	}
	if !approved {
		return apperror.NotFound(msgNoPendingInvitation)
	}

	s.notifyInviter(ctx, uow, events.CollaborationApproved, chat, collab, userId)
	return nil
}

func (s *collaborationService) Reject(ctx context.Context, userId, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, collab, err := s.pendingRow(ctx, uow, userId, chatId)
	if err != nil {
		return err
	}

	deleted, err := uow.CollaborationRepository().DeleteWhere(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.ByCollaboratorID{CollaboratorID: userId},
		specification.PendingOnly{},
	)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperror.NotFound(msgNoPendingInvitation)
	}

	s.notifyInviter(ctx, uow, events.CollaborationRejected, chat, collab, userId)
	return nil
}

// notifyInviter tells the user who sent an invitation what the invitee decided.
func (s *collaborationService) notifyInviter(ctx context.Context, uow unitofwork.UnitOfWork, eventType string, chat *entity.Chat, collab *entity.Collaboration, actorId uuid.UUID) {
	userRepo := uow.UserRepository()
	actor, err := userRepo.FindOne(ctx, specification.ByID{ID: actorId})
	if err != nil || actor == nil {
		actor = &entity.User{Id: actorId}
	}
	inviter, err := userRepo.FindOne(ctx, specification.ByID{ID: collab.AddedById})
	if err != nil || inviter == nil {
		inviter = &entity.User{Id: collab.AddedById}
	}

	evts := []events.Event{s.collabEvent(eventType, chat, actor, inviter, collab.AccessLevel)}
	s.record(evts)
	publishAll(ctx, s.publisher, s.logger, "CollaborationService", evts)
}

func (s *collaborationService) Remove(ctx context.Context, actorId, chatId uuid.UUID, req *dto.RemoveCollaboratorRequest) (string, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" && req.UserId == nil {
		return "", apperror.Validation(msgUsernameRequired)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.policy.DeletedChats.loadChat(ctx, uow, chatId, chatWrite)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return "", apperror.NotFound(msgCollabNotFound)
		}
		return "", err
	}

	userRepo := uow.UserRepository()
	var target *entity.User
	if req.UserId != nil {
		target, err = userRepo.FindOne(ctx, specification.ByID{ID: *req.UserId})
	} else {
		target, err = userRepo.FindOne(ctx, specification.ByUsername{Username: username})
	}
	if err != nil {
		return "", err
	}
	if target == nil {
		return "", apperror.NotFound(msgCollabNotFound)
	}

	collabRepo := uow.CollaborationRepository()
	collab, err := collabRepo.FindOne(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.ByCollaboratorID{CollaboratorID: target.Id},
	)
	if err != nil {
		return "", err
	}
	if collab == nil {
		return "", apperror.NotFound(msgCollabNotFound)
	}
	if !chat.IsOwner(actorId) && collab.AddedById != actorId {
		return "", apperror.Forbidden(msgRemoveNotAuthorized)
	}

	deleted, err := collabRepo.DeleteWhere(ctx, specification.ByID{ID: collab.Id})
	if err != nil {
		return "", err
	}
	if deleted == 0 {
		return "", apperror.NotFound(msgCollabNotFound)
	}

	actor, err := userRepo.FindOne(ctx, specification.ByID{ID: actorId})
	if err != nil || actor == nil {
		actor = &entity.User{Id: actorId}
	}
	evts := []events.Event{s.collabEvent(events.CollaborationRemoved, chat, actor, target, collab.AccessLevel)}
	s.record(evts)
	publishAll(ctx, s.publisher, s.logger, "CollaborationService", evts)

	return fmt.Sprintf("%s removed from collaborators.", target.Username), nil
}

func (s *collaborationService) ListPending(ctx context.Context, userId uuid.UUID) ([]*dto.PendingInvitationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.CollaborationRepository().FindPendingInvitations(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PendingInvitationResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, &dto.PendingInvitationResponse{
			Id:    row.ChatId,
			Title: row.Title,
			Owner: dto.UserResponse{
				Id:       row.OwnerId,
				Username: row.OwnerUsername,
				Email:    row.OwnerEmail,
			},
			AddedAt: row.AddedAt,
		})
	}
	return res, nil
}

func (s *collaborationService) ListCollaborators(ctx context.Context, userId, chatId uuid.UUID) ([]*dto.CollaboratorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := s.policy.DeletedChats.loadChat(ctx, uow, chatId, chatRead)
	if err != nil {
		return nil, err
	}

	perm, err := s.access.Evaluate(ctx, uow, chat, userId)
	if err != nil {
		return nil, err
	}
	if !perm.Allows(entity.PermissionView) {
		return nil, apperror.Forbidden(msgCollaboratorsNoRight)
	}

	collabs, err := uow.CollaborationRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chat.Id},
		specification.OldestAddedFirst{},
	)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{chat.UserId}
	for _, c := range collabs {
		ids = append(ids, c.CollaboratorId, c.AddedById)
	}
	users, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]dto.UserResponse, len(users))
	for _, u := range users {
		byId[u.Id] = dto.UserResponse{Id: u.Id, Username: u.Username, Email: u.Email}
	}
	userRef := func(id uuid.UUID) dto.UserResponse {
		if u, ok := byId[id]; ok {
			return u
		}
		return dto.UserResponse{Id: id}
	}

	owner := userRef(chat.UserId)
	res := make([]*dto.CollaboratorResponse, 0, len(collabs)+1)
	res = append(res, &dto.CollaboratorResponse{
		Id:           uuid.Nil,
		ChatId:       chat.Id,
		Collaborator: owner,
		AddedBy:      owner,
		AccessLevel:  string(entity.AccessLevelEdit),
		IsApproved:   true,
		AddedAt:      chat.CreatedAt,
		IsOwner:      true,
	})
	for _, c := range collabs {
		res = append(res, &dto.CollaboratorResponse{
			Id:           c.Id,
			ChatId:       c.ChatId,
			Collaborator: userRef(c.CollaboratorId),
			AddedBy:      userRef(c.AddedById),
			AccessLevel:  string(c.AccessLevel),
			IsApproved:   c.IsApproved,
			AddedAt:      c.AddedAt,
			IsOwner:      false,
		})
	}
	return res, nil
}

func (s *collaborationService) collabEvent(eventType string, chat *entity.Chat, actor, recipient *entity.User, level entity.AccessLevel) events.CollaborationEvent {
	return events.CollaborationEvent{
		Type:          eventType,
		ChatId:        chat.Id,
		ChatTitle:     chat.Title,
		ActorId:       actor.Id,
		ActorUsername: actor.Username,
		RecipientId:   recipient.Id,
		Email:         recipient.Email,
		AccessLevel:   string(level),
		OccurredAt:    time.Now(),
	}
}

func (s *collaborationService) record(evts []events.Event) {
	for _, evt := range evts {
		transition := strings.TrimPrefix(evt.EventType(), "collaboration.")
		metrics.Global().CollaborationTransitions.WithLabelValues(transition).Inc()
	}
}
