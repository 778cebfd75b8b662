package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile holds premium state and metered usage for a user.
type UserProfile struct {
	UserId           uuid.UUID
	IsPremium        bool
	PremiumExpiry    *time.Time
	AudioMinutesUsed float64
	UpdatedAt        time.Time
}

// PremiumActive reports whether premium is on and not yet expired at now.
func (p *UserProfile) PremiumActive(now time.Time) bool {
	if p == nil || !p.IsPremium {
		return false
	}
	return p.PremiumExpiry == nil || p.PremiumExpiry.After(now)
}
