package entity

import (
	"time"

	"github.com/google/uuid"
)

type SpeechStatus string

const (
	SpeechStatusPending SpeechStatus = "pending"
	SpeechStatusDone    SpeechStatus = "done"
	SpeechStatusFailed  SpeechStatus = "failed"
)

type TextToSpeech struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Text      string
	Voice     string
	Speed     float64
	AudioPath string
	Status    SpeechStatus
	Error     string
	CreatedAt time.Time
}
