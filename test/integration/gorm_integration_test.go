package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/model"
	"chatshare-be/internal/repository/specification"
	"chatshare-be/internal/repository/unitofwork"
	"chatshare-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, gormDB.AutoMigrate(model.All()...))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(ctx)
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Collaboration upsert honours the unique pair", func(t *testing.T) {
		suffix := uuid.NewString()[:8]
		owner := &entity.User{Username: "it-owner-" + suffix, Email: "it-owner-" + suffix + "@example.com", PasswordHash: "x"}
		guest := &entity.User{Username: "it-guest-" + suffix, Email: "it-guest-" + suffix + "@example.com", PasswordHash: "x"}
		require.NoError(t, uow.UserRepository().Create(ctx, owner))
		require.NoError(t, uow.UserRepository().Create(ctx, guest))

		chat := &entity.Chat{UserId: owner.Id, Title: "Integration chat"}
		require.NoError(t, uow.ChatRepository().Create(ctx, chat))

		t.Cleanup(func() {
			gormDB.Exec("DELETE FROM collaborations WHERE chat_id = ?", chat.Id)
			gormDB.Unscoped().Exec("DELETE FROM chats WHERE id = ?", chat.Id)
			gormDB.Exec("DELETE FROM users WHERE id IN ?", []uuid.UUID{owner.Id, guest.Id})
		})

		row := &entity.Collaboration{
			ChatId:         chat.Id,
			CollaboratorId: guest.Id,
			AddedById:      owner.Id,
			AccessLevel:    entity.AccessLevelView,
		}

		// Both inserts run in one transaction, the second must be a no-op.
		require.NoError(t, uow.Begin(ctx))
		created, err := uow.CollaborationRepository().InsertIfAbsent(ctx, row)
		require.NoError(t, err)
		assert.True(t, created)

		again := *row
		again.Id = uuid.Nil
		created, err = uow.CollaborationRepository().InsertIfAbsent(ctx, &again)
		require.NoError(t, err)
		assert.False(t, created)
		require.NoError(t, uow.Commit())

		approved, err := uow.CollaborationRepository().Approve(ctx, chat.Id, guest.Id)
		require.NoError(t, err)
		assert.True(t, approved)

		count, err := uow.CollaborationRepository().Count(ctx, specification.ByChatID{ChatID: chat.Id})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
