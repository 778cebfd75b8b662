package mapper

import (
	"chatshare-be/internal/entity"
	"chatshare-be/internal/model"
)

type SpeechMapper struct{}

func NewSpeechMapper() *SpeechMapper {
	return &SpeechMapper{}
}

func (m *SpeechMapper) ToEntity(t *model.TextToSpeech) *entity.TextToSpeech {
	if t == nil {
		return nil
	}
	return &entity.TextToSpeech{
		Id:        t.Id,
		UserId:    t.UserId,
		Text:      t.Text,
		Voice:     t.Voice,
		Speed:     t.Speed,
		AudioPath: t.AudioPath,
		Status:    entity.SpeechStatus(t.Status),
		Error:     t.Error,
		CreatedAt: t.CreatedAt,
	}
}

func (m *SpeechMapper) ToModel(t *entity.TextToSpeech) *model.TextToSpeech {
	if t == nil {
		return nil
	}
	return &model.TextToSpeech{
		Id:        t.Id,
		UserId:    t.UserId,
		Text:      t.Text,
		Voice:     t.Voice,
		Speed:     t.Speed,
		AudioPath: t.AudioPath,
		Status:    string(t.Status),
		Error:     t.Error,
		CreatedAt: t.CreatedAt,
	}
}
