package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"chatshare-be/internal/dto"
	"chatshare-be/internal/entity"
	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/pkg/logger"
	"chatshare-be/internal/repository/unitofwork"
	"chatshare-be/pkg/filestore"
	"chatshare-be/pkg/speech"

	"github.com/google/uuid"
)

const (
	msgNoText            = "No text provided"
	msgSpeechFailed      = "Text-to-speech conversion failed"
	msgFreeAudioExceeded = "Free audio limit reached. Upgrade to premium."

	wordsPerMinute    = 150.0
	minimumAudioUnits = 0.1
)

type ISpeechService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateAudioRequest) (*dto.GenerateAudioResponse, error)
}

type speechService struct {
	uowFactory       unitofwork.RepositoryFactory
	synthesizer      speech.Synthesizer
	store            filestore.Store
	freeAudioMinutes float64
	logger           logger.ILogger
}

func NewSpeechService(
	uowFactory unitofwork.RepositoryFactory,
	synthesizer speech.Synthesizer,
	store filestore.Store,
	freeAudioMinutes float64,
	log logger.ILogger,
) ISpeechService {
	return &speechService{
		uowFactory:       uowFactory,
		synthesizer:      synthesizer,
		store:            store,
		freeAudioMinutes: freeAudioMinutes,
		logger:           log,
	}
}

// EstimateAudioMinutes approximates spoken length at 150 words per minute,
// never less than a tenth of a minute.
func EstimateAudioMinutes(text string, speed float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	words := float64(len(strings.Fields(text)))
	minutes := words / wordsPerMinute / speed
	minutes = math.Round(minutes*100) / 100
	if minutes < minimumAudioUnits {
		return minimumAudioUnits
	}
	return minutes
}

func (s *speechService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateAudioRequest) (*dto.GenerateAudioResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.Validation(msgNoText)
	}
	voice := req.Voice
	if voice == "" {
		voice = speech.DefaultVoice
	}
	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}
	minutes := EstimateAudioMinutes(text, speed)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	userRepo := uow.UserRepository()
	profile, err := userRepo.FindProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !profile.PremiumActive(time.Now()) {
		used := 0.0
		if profile != nil {
			used = profile.AudioMinutesUsed
		}
		if used+minutes > s.freeAudioMinutes {
			return nil, apperror.LimitReached(msgFreeAudioExceeded)
		}
	}

	speechRepo := uow.SpeechRepository()
	row := &entity.TextToSpeech{
		UserId: userId,
		Text:   text,
		Voice:  voice,
		Speed:  speed,
		Status: entity.SpeechStatusPending,
	}
	if err := speechRepo.Create(ctx, row); err != nil {
		return nil, err
	}

	audioURL, err := s.synthesizeAndStore(ctx, row)
	if err != nil {
		row.Status = entity.SpeechStatusFailed
		row.Error = err.Error()
		if updateErr := speechRepo.Update(ctx, row); updateErr != nil {
			s.logger.Error("SpeechService", "Failed to mark speech as failed", map[string]interface{}{
				"id":    row.Id.String(),
				"error": updateErr.Error(),
			})
		}
		s.logger.Error("SpeechService", "Text-to-speech failed", map[string]interface{}{
			"id":    row.Id.String(),
			"error": err.Error(),
		})
		return nil, apperror.Upstream(msgSpeechFailed, err)
	}

	row.Status = entity.SpeechStatusDone
	if err := speechRepo.Update(ctx, row); err != nil {
		return nil, err
	}

	if err := userRepo.AddAudioMinutes(ctx, userId, minutes); err != nil {
		s.logger.Warn("SpeechService", "Failed to record audio usage", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}

	return &dto.GenerateAudioResponse{
		Id:       row.Id,
		AudioURL: audioURL,
		Minutes:  minutes,
	}, nil
}

func (s *speechService) synthesizeAndStore(ctx context.Context, row *entity.TextToSpeech) (string, error) {
	audio, err := s.synthesizer.Synthesize(ctx, row.Text, row.Voice, row.Speed)
	if err != nil {
		return "", err
	}

	path := fmt.Sprintf("text_to_speech/%s.mp3", row.Id)
	url, err := s.store.Put(ctx, path, "audio/mpeg", audio)
	if err != nil {
		return "", err
	}
	row.AudioPath = path
	return url, nil
}
