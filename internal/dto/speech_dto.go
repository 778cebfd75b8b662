package dto

import "github.com/google/uuid"

type GenerateAudioRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice" validate:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
	Speed float64 `json:"speed" validate:"omitempty,gte=0.25,lte=4"`
}

type GenerateAudioResponse struct {
	Id       uuid.UUID `json:"id"`
	AudioURL string    `json:"audio_url"`
	Minutes  float64   `json:"minutes"`
}
