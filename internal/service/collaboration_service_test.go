package service

import (
	"context"
	"testing"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/repository/implementation"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type collabFixture struct {
	db        *gorm.DB
	svc       ICollaborationService
	publisher *recordingPublisher
	owner     *entity.User
	alice     *entity.User
	bob       *entity.User
	chat      *entity.Chat
}

func newCollabFixture(t *testing.T, policy CollaborationPolicy) *collabFixture {
	db, factory := newTestFactory(t)
	publisher := &recordingPublisher{}
	f := &collabFixture{
		db:        db,
		svc:       NewCollaborationService(factory, NewAccessEvaluator(), publisher, policy, nopLogger()),
		publisher: publisher,
		owner:     seedUser(t, db, "owner"),
		alice:     seedUser(t, db, "alice"),
		bob:       seedUser(t, db, "bob"),
	}
	f.chat = seedChat(t, db, f.owner, "Trip planning")
	return f
}

func (f *collabFixture) collaboration(t *testing.T, user *entity.User) *entity.Collaboration {
	t.Helper()
	collab, err := implementation.NewCollaborationRepository(f.db).FindOne(context.Background(),
		specification.ByChatID{ChatID: f.chat.Id},
		specification.ByCollaboratorID{CollaboratorID: user.Id},
	)
	require.NoError(t, err)
	return collab
}

func (f *collabFixture) permission(t *testing.T, user *entity.User) entity.Permission {
	t.Helper()
	return ResolvePermission(f.chat, user.Id, f.collaboration(t, user))
}

func assertKind(t *testing.T, err error, kind apperror.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err))
	if message != "" {
		assert.Contains(t, err.Error(), message)
	}
}

func TestCollaboration_InviteCreatesPendingRows(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	unknown := uuid.New()

	res, err := f.svc.Invite(ctx, f.owner.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
		UserIds:     []uuid.UUID{f.alice.Id, f.alice.Id, unknown, f.owner.Id},
		AccessLevel: "edit",
	})
	require.NoError(t, err)

	assert.Equal(t, "1 collaborators added.", res.Message)
	require.Len(t, res.Added, 1)
	assert.Equal(t, f.alice.Id, res.Added[0].Id)
	assert.Empty(t, res.Updated)
	assert.ElementsMatch(t, []string{unknown.String(), "owner"}, res.Skipped)

	collab := f.collaboration(t, f.alice)
	require.NotNil(t, collab)
	assert.False(t, collab.IsApproved)
	assert.Equal(t, entity.AccessLevelEdit, collab.AccessLevel)
	assert.Equal(t, f.owner.Id, collab.AddedById)

	// Pending rows grant nothing.
	assert.Equal(t, entity.PermissionNone, f.permission(t, f.alice))

	require.Equal(t, []string{events.CollaborationInvited}, f.publisher.types())
	evt := f.publisher.events[0].(events.CollaborationEvent)
	assert.Equal(t, f.alice.Id, evt.RecipientId)
	assert.Equal(t, f.alice.Email, evt.Email)
	assert.Equal(t, "owner", evt.ActorUsername)
}

func TestCollaboration_ReinviteUpdatesLevelOnly(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelView, true)

	res, err := f.svc.Invite(ctx, f.owner.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
		UserIds: []uuid.UUID{f.alice.Id},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Empty(t, res.Updated)
	assert.Equal(t, []string{"alice"}, res.Skipped)
	assert.Empty(t, f.publisher.types())

	res, err = f.svc.Invite(ctx, f.owner.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
		UserIds:     []uuid.UUID{f.alice.Id},
		AccessLevel: "EDIT",
	})
	require.NoError(t, err)
	require.Len(t, res.Updated, 1)
	assert.Equal(t, "0 collaborators added.", res.Message)

	collab := f.collaboration(t, f.alice)
	assert.True(t, collab.IsApproved, "approval survives a level change")
	assert.Equal(t, entity.PermissionEdit, f.permission(t, f.alice))
	assert.Equal(t, []string{events.CollaborationAccessChanged}, f.publisher.types())
}

func TestCollaboration_InviteValidation(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()

	_, err := f.svc.Invite(ctx, f.owner.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{})
	assertKind(t, err, apperror.KindValidation, "user_ids must be a non-empty list.")

	_, err = f.svc.Invite(ctx, f.owner.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
		UserIds:     []uuid.UUID{f.alice.Id},
		AccessLevel: "admin",
	})
	assertKind(t, err, apperror.KindValidation, "Invalid access level.")

	_, err = f.svc.Invite(ctx, f.owner.Id, uuid.New(), &dto.InviteCollaboratorsRequest{
		UserIds: []uuid.UUID{f.alice.Id},
	})
	assertKind(t, err, apperror.KindNotFound, "")
}

func TestCollaboration_OnlyOwnerInvitesByDefault(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelEdit, true)

	_, err := f.svc.Invite(ctx, f.alice.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
		UserIds: []uuid.UUID{f.bob.Id},
	})
	assertKind(t, err, apperror.KindForbidden, "Only the owner can add collaborators.")
	assert.Nil(t, f.collaboration(t, f.bob))
}

func TestCollaboration_EditorsInviteWhenAllowed(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{CollaboratorsMayInvite: true})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelEdit, true)

	res, err := f.svc.Invite(ctx, f.alice.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
		UserIds: []uuid.UUID{f.bob.Id},
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, f.alice.Id, f.collaboration(t, f.bob).AddedById)

	// Viewers still cannot invite.
	carol := seedUser(t, f.db, "carol")
	dave := seedUser(t, f.db, "dave")
	seedCollaboration(t, f.db, f.chat, carol, f.owner, entity.AccessLevelView, true)
	_, err = f.svc.Invite(ctx, carol.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
		UserIds: []uuid.UUID{dave.Id},
	})
	assertKind(t, err, apperror.KindForbidden, "")
}

func TestCollaboration_ShareByEmail(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()

	res, err := f.svc.ShareByEmail(ctx, f.owner.Id, f.chat.Id, &dto.ShareByEmailRequest{
		Email:       "ALICE@example.com",
		AccessLevel: "view",
	})
	require.NoError(t, err)
	assert.Equal(t, "Chat shared with alice.", res.Message)
	require.Len(t, res.Added, 1)

	_, err = f.svc.ShareByEmail(ctx, f.owner.Id, f.chat.Id, &dto.ShareByEmailRequest{Email: "nobody@example.com"})
	assertKind(t, err, apperror.KindNotFound, "User with this email not found.")

	_, err = f.svc.ShareByEmail(ctx, f.owner.Id, f.chat.Id, &dto.ShareByEmailRequest{Email: f.owner.Email})
	assertKind(t, err, apperror.KindValidation, "You cannot share the chat with yourself.")
}

func TestCollaboration_ApproveGrantsAccess(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelView, false)

	require.NoError(t, f.svc.Approve(ctx, f.alice.Id, f.chat.Id))
	assert.Equal(t, entity.PermissionView, f.permission(t, f.alice))

	require.Equal(t, []string{events.CollaborationApproved}, f.publisher.types())
	evt := f.publisher.events[0].(events.CollaborationEvent)
	assert.Equal(t, f.owner.Id, evt.RecipientId, "the inviter hears about the decision")
	assert.Equal(t, f.alice.Id, evt.ActorId)

	err := f.svc.Approve(ctx, f.alice.Id, f.chat.Id)
	assertKind(t, err, apperror.KindNotFound, "No pending invitation found.")

	err = f.svc.Approve(ctx, f.bob.Id, f.chat.Id)
	assertKind(t, err, apperror.KindNotFound, "No pending invitation found.")
}

func TestCollaboration_RejectDeletesPendingRow(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelEdit, false)

	require.NoError(t, f.svc.Reject(ctx, f.alice.Id, f.chat.Id))
	assert.Nil(t, f.collaboration(t, f.alice))
	assert.Equal(t, []string{events.CollaborationRejected}, f.publisher.types())

	err := f.svc.Reject(ctx, f.alice.Id, f.chat.Id)
	assertKind(t, err, apperror.KindNotFound, "No pending invitation found.")
}

func TestCollaboration_RejectLeavesApprovedRowAlone(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelEdit, true)

	err := f.svc.Reject(ctx, f.alice.Id, f.chat.Id)
	assertKind(t, err, apperror.KindNotFound, "No pending invitation found.")
	assert.Equal(t, entity.PermissionEdit, f.permission(t, f.alice))
}

func TestCollaboration_Remove(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelEdit, true)

	_, err := f.svc.Remove(ctx, f.owner.Id, f.chat.Id, &dto.RemoveCollaboratorRequest{})
	assertKind(t, err, apperror.KindValidation, "Username is required.")

	_, err = f.svc.Remove(ctx, f.bob.Id, f.chat.Id, &dto.RemoveCollaboratorRequest{Username: "alice"})
	assertKind(t, err, apperror.KindForbidden, "You are not authorized to remove this collaborator.")

	_, err = f.svc.Remove(ctx, f.owner.Id, f.chat.Id, &dto.RemoveCollaboratorRequest{Username: "bob"})
	assertKind(t, err, apperror.KindNotFound, "Collaboration not found.")

	message, err := f.svc.Remove(ctx, f.owner.Id, f.chat.Id, &dto.RemoveCollaboratorRequest{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice removed from collaborators.", message)
	assert.Nil(t, f.collaboration(t, f.alice))
	assert.Equal(t, entity.PermissionNone, f.permission(t, f.alice))
	assert.Equal(t, []string{events.CollaborationRemoved}, f.publisher.types())
}

func TestCollaboration_InviterMayRemoveOwnInvitee(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{CollaboratorsMayInvite: true})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelEdit, true)
	seedCollaboration(t, f.db, f.chat, f.bob, f.alice, entity.AccessLevelView, false)

	bobId := f.bob.Id
	message, err := f.svc.Remove(ctx, f.alice.Id, f.chat.Id, &dto.RemoveCollaboratorRequest{UserId: &bobId})
	require.NoError(t, err)
	assert.Equal(t, "bob removed from collaborators.", message)
}

func TestCollaboration_ListPending(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelView, false)

	other := seedChat(t, f.db, f.bob, "Approved already")
	seedCollaboration(t, f.db, other, f.alice, f.bob, entity.AccessLevelView, true)

	gone := seedChat(t, f.db, f.bob, "Deleted")
	seedCollaboration(t, f.db, gone, f.alice, f.bob, entity.AccessLevelView, false)
	require.NoError(t, implementation.NewChatRepository(f.db).Delete(ctx, gone.Id))

	pending, err := f.svc.ListPending(ctx, f.alice.Id)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.chat.Id, pending[0].Id)
	assert.Equal(t, "Trip planning", pending[0].Title)
	assert.Equal(t, f.owner.Id, pending[0].Owner.Id)
	assert.Equal(t, "owner", pending[0].Owner.Username)
	assert.Equal(t, f.owner.Email, pending[0].Owner.Email)

	// Pending invitations on a hidden chat cannot be answered either.
	err = f.svc.Approve(ctx, f.alice.Id, gone.Id)
	assertKind(t, err, apperror.KindNotFound, "No pending invitation found.")
}

func TestCollaboration_ListCollaborators(t *testing.T) {
	f := newCollabFixture(t, CollaborationPolicy{})
	ctx := context.Background()
	seedCollaboration(t, f.db, f.chat, f.alice, f.owner, entity.AccessLevelEdit, true)
	seedCollaboration(t, f.db, f.chat, f.bob, f.owner, entity.AccessLevelView, false)

	rows, err := f.svc.ListCollaborators(ctx, f.alice.Id, f.chat.Id)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	ownerRow := rows[0]
	assert.True(t, ownerRow.IsOwner)
	assert.Equal(t, uuid.Nil, ownerRow.Id)
	assert.Equal(t, f.owner.Id, ownerRow.Collaborator.Id)
	assert.Equal(t, "edit", ownerRow.AccessLevel)
	assert.True(t, ownerRow.IsApproved)

	byUser := map[uuid.UUID]*dto.CollaboratorResponse{}
	for _, row := range rows[1:] {
		assert.False(t, row.IsOwner)
		assert.Equal(t, f.chat.Id, row.ChatId)
		assert.Equal(t, "owner", row.AddedBy.Username)
		byUser[row.Collaborator.Id] = row
	}
	require.Contains(t, byUser, f.alice.Id)
	require.Contains(t, byUser, f.bob.Id)
	assert.True(t, byUser[f.alice.Id].IsApproved)
	assert.False(t, byUser[f.bob.Id].IsApproved)

	// A pending invitee holds no access yet.
	_, err = f.svc.ListCollaborators(ctx, f.bob.Id, f.chat.Id)
	assertKind(t, err, apperror.KindForbidden, "Not authorized.")

	stranger := seedUser(t, f.db, "stranger")
	_, err = f.svc.ListCollaborators(ctx, stranger.Id, f.chat.Id)
	assertKind(t, err, apperror.KindForbidden, "")
}

func TestCollaboration_DeletedChatPolicies(t *testing.T) {
	for _, tc := range []struct {
		policy     DeletedChatPolicy
		listOK     bool
		mutationOK bool
	}{
		{DeletedChatHidden, false, false},
		{DeletedChatReadOnly, true, false},
		{DeletedChatAddressable, true, true},
	} {
		t.Run(string(tc.policy), func(t *testing.T) {
			f := newCollabFixture(t, CollaborationPolicy{DeletedChats: tc.policy})
			ctx := context.Background()
			require.NoError(t, implementation.NewChatRepository(f.db).Delete(ctx, f.chat.Id))

			_, err := f.svc.ListCollaborators(ctx, f.owner.Id, f.chat.Id)
			if tc.listOK {
				assert.NoError(t, err)
			} else {
				assertKind(t, err, apperror.KindNotFound, "")
			}

			_, err = f.svc.Invite(ctx, f.owner.Id, f.chat.Id, &dto.InviteCollaboratorsRequest{
				UserIds: []uuid.UUID{f.alice.Id},
			})
			if tc.mutationOK {
				assert.NoError(t, err)
			} else {
				assertKind(t, err, apperror.KindNotFound, "")
			}
		})
	}
}
