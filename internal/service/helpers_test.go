package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/model"
	"chatshare-be/internal/pkg/logger"
	"chatshare-be/internal/repository/implementation"
	"chatshare-be/internal/repository/unitofwork"
	"chatshare-be/pkg/database"
	"chatshare-be/pkg/events"
	"chatshare-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteDB("")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestFactory(t *testing.T) (*gorm.DB, unitofwork.RepositoryFactory) {
	db := newTestDB(t)
	return db, unitofwork.NewRepositoryFactory(db)
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, implementation.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedChat(t *testing.T, db *gorm.DB, owner *entity.User, title string) *entity.Chat {
	t.Helper()
	chat := &entity.Chat{UserId: owner.Id, Title: title}
	require.NoError(t, implementation.NewChatRepository(db).Create(context.Background(), chat))
	return chat
}

func seedCollaboration(t *testing.T, db *gorm.DB, chat *entity.Chat, collaborator, addedBy *entity.User, level entity.AccessLevel, approved bool) {
	t.Helper()
	repo := implementation.NewCollaborationRepository(db)
	inserted, err := repo.InsertIfAbsent(context.Background(), &entity.Collaboration{
		ChatId:         chat.Id,
		CollaboratorId: collaborator.Id,
		AddedById:      addedBy.Id,
		AccessLevel:    level,
	})
	require.NoError(t, err)
	require.True(t, inserted)
	if approved {
		ok, err := repo.Approve(context.Background(), chat.Id, collaborator.Id)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func nopLogger() logger.ILogger {
	return logger.NewNopLogger()
}

// recordingPublisher keeps every published event in order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// fakeLLM answers every call with reply, or fails with err.
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(history) > 0 {
		f.prompts = append(f.prompts, history[len(history)-1].Content)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// failingCounterStore fails every call.
type failingCounterStore struct{}

var errCounterStore = errors.New("counter store down")

func (failingCounterStore) Counts(ctx context.Context, guestId uuid.UUID, ip string) (int64, int64, error) {
	return 0, 0, errCounterStore
}

func (failingCounterStore) Increment(ctx context.Context, guestId uuid.UUID, ip string) error {
	return errCounterStore
}

func ptrTime(t time.Time) *time.Time { return &t }
