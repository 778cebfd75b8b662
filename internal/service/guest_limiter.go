package service

import (
	"context"

	"chatshare-be/internal/metrics"
	"chatshare-be/internal/pkg/logger"
	"chatshare-be/internal/repository/contract"

	"github.com/google/uuid"
)

const DefaultGuestLimit int64 = 10

type GuestDecision int

const (
	GuestAllowed GuestDecision = iota
	GuestLimitExceeded
)

func (d GuestDecision) String() string {
	if d == GuestLimitExceeded {
		return "limit_exceeded"
	}
	return "allowed"
}

// IGuestLimiter meters anonymous chat turns per guest id and per client IP.
// A guest is refused once either counter has reached the limit.
type IGuestLimiter interface {
	Check(ctx context.Context, guestId uuid.UUID, ip string) (GuestDecision, error)
	Record(ctx context.Context, guestId uuid.UUID, ip string) error
	// CheckAndIncrement runs guarded only when the guest is under the limit and
	// counts the turn only when guarded succeeded.
	CheckAndIncrement(ctx context.Context, guestId uuid.UUID, ip string, guarded func(ctx context.Context) error) (GuestDecision, error)
}

type guestLimiter struct {
	store  contract.GuestCounterStore
	limit  int64
	logger logger.ILogger
}

func NewGuestLimiter(store contract.GuestCounterStore, limit int64, log logger.ILogger) IGuestLimiter {
	if limit <= 0 {
		limit = DefaultGuestLimit
	}
	return &guestLimiter{
		store:  store,
		limit:  limit,
		logger: log,
	}
}

func (l *guestLimiter) Check(ctx context.Context, guestId uuid.UUID, ip string) (GuestDecision, error) {
	guestCount, ipCount, err := l.store.Counts(ctx, guestId, ip)
	if err != nil {
		return GuestAllowed, err
	}
	if guestCount >= l.limit || ipCount >= l.limit {
		return GuestLimitExceeded, nil
	}
	return GuestAllowed, nil
}

func (l *guestLimiter) Record(ctx context.Context, guestId uuid.UUID, ip string) error {
	return l.store.Increment(ctx, guestId, ip)
}

func (l *guestLimiter) CheckAndIncrement(ctx context.Context, guestId uuid.UUID, ip string, guarded func(ctx context.Context) error) (GuestDecision, error) {
	decision, err := l.Check(ctx, guestId, ip)
	if err != nil {
		return GuestAllowed, err
	}
	if decision == GuestLimitExceeded {
		metrics.Global().GuestLimitHits.Inc()
		l.logger.Info("GuestLimiter", "Guest limit reached", map[string]interface{}{
			"guest_id": guestId.String(),
			"ip":       ip,
		})
		return GuestLimitExceeded, nil
	}

	if err := guarded(ctx); err != nil {
		return GuestAllowed, err
	}

	// The reply already went out; a lost increment only under-counts.
	if err := l.Record(ctx, guestId, ip); err != nil {
		l.logger.Error("GuestLimiter", "Failed to record guest usage", map[string]interface{}{
			"guest_id": guestId.String(),
			"ip":       ip,
			"error":    err.Error(),
		})
	}
	return GuestAllowed, nil
}
