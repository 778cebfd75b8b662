package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TextToSpeech struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Text      string    `gorm:"type:text;not null"`
	Voice     string    `gorm:"type:varchar(50);not null"`
	Speed     float64   `gorm:"not null;default:1"`
	AudioPath string    `gorm:"type:varchar(255)"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	Error     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TextToSpeech) TableName() string {
	return "text_to_speech"
}

func (t *TextToSpeech) BeforeCreate(tx *gorm.DB) error {
	if t.Id == uuid.Nil {
		t.Id = uuid.New()
	}
	return nil
}
