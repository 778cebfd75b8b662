package model

import (
	"time"

	"github.com/google/uuid"
)

type GuestChatTracker struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	GuestId   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Count     int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (GuestChatTracker) TableName() string {
	return "guest_chat_trackers"
}

type GuestIPTracker struct {
	Id        uint      `gorm:"primaryKey;autoIncrement"`
	IpAddress string    `gorm:"type:varchar(45);uniqueIndex;not null"`
	Count     int64     `gorm:"not null;default:0"`
	LastSeen  time.Time `gorm:"not null"`
}

func (GuestIPTracker) TableName() string {
	return "guest_ip_trackers"
}
