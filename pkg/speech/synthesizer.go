package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultVoice   = "alloy"
)

// Synthesizer turns text into encoded audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error)
}

// OpenAISynthesizer calls an OpenAI compatible /audio/speech endpoint and
// returns mp3 bytes. Failures are not retried.
type OpenAISynthesizer struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ Synthesizer = &OpenAISynthesizer{}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format"`
}

func NewOpenAISynthesizer(apiKey, baseURL, model string, timeout time.Duration) *OpenAISynthesizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = "tts-1"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAISynthesizer{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, voice string, speed float64) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}

	payload, err := json.Marshal(speechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          voice,
		Speed:          speed,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech api error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("speech api returned no audio")
	}
	return body, nil
}
