package contract

import (
	"context"

	"chatshare-be/internal/entity"
	"chatshare-be/internal/repository/specification"
)

type SpeechRepository interface {
	Create(ctx context.Context, tts *entity.TextToSpeech) error
	Update(ctx context.Context, tts *entity.TextToSpeech) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TextToSpeech, error)
}
