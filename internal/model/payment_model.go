package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserPayment struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Reference   string         `gorm:"type:varchar(64);uniqueIndex;not null"`
	Amount      int64          `gorm:"not null"`
	Status      string         `gorm:"type:varchar(20);not null;default:'pending'"`
	SnapToken   string         `gorm:"type:varchar(255)"`
	RedirectURL string         `gorm:"type:text"`
	RawResponse datatypes.JSON `gorm:"type:json"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (UserPayment) TableName() string {
	return "user_payments"
}

func (p *UserPayment) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}
