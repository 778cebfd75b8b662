package contract

import (
	"context"

	"github.com/google/uuid"
)

// GuestCounterStore keeps the two independent guest usage counters.
// A counter that was never incremented reads as zero.
type GuestCounterStore interface {
	Counts(ctx context.Context, guestId uuid.UUID, ip string) (guestCount int64, ipCount int64, err error)
	Increment(ctx context.Context, guestId uuid.UUID, ip string) error
}
