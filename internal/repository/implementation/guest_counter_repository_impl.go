package implementation

import (
	"context"
	"time"

	"chatshare-be/internal/model"
	"chatshare-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GuestCounterRepositoryImpl keeps guest counters in guest_chat_trackers and
// guest_ip_trackers. Rows appear on the first recorded turn.
type GuestCounterRepositoryImpl struct {
	db *gorm.DB
}

func NewGuestCounterRepository(db *gorm.DB) contract.GuestCounterStore {
	return &GuestCounterRepositoryImpl{db: db}
}

func (r *GuestCounterRepositoryImpl) Counts(ctx context.Context, guestId uuid.UUID, ip string) (int64, int64, error) {
	var guestCounts []int64
	if err := r.db.WithContext(ctx).Model(&model.GuestChatTracker{}).
		Where("guest_id = ?", guestId).
		Pluck("count", &guestCounts).Error; err != nil {
		return 0, 0, err
	}

	var ipCounts []int64
	if err := r.db.WithContext(ctx).Model(&model.GuestIPTracker{}).
		Where("ip_address = ?", ip).
		Pluck("count", &ipCounts).Error; err != nil {
		return 0, 0, err
	}

	return first(guestCounts), first(ipCounts), nil
}

func (r *GuestCounterRepositoryImpl) Increment(ctx context.Context, guestId uuid.UUID, ip string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guest_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("guest_chat_trackers.count + 1"),
				"updated_at": now,
			}),
		}).Create(&model.GuestChatTracker{GuestId: guestId, Count: 1}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ip_address"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":     gorm.Expr("guest_ip_trackers.count + 1"),
				"last_seen": now,
			}),
		}).Create(&model.GuestIPTracker{IpAddress: ip, Count: 1, LastSeen: now}).Error
	})
}

func first(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}
