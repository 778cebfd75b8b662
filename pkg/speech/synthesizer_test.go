package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAISynthesizer(t *testing.T) {
	var got speechRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3"))
	}))
	defer server.Close()

	s := NewOpenAISynthesizer("sk-test", server.URL, "", time.Second)
	audio, err := s.Synthesize(context.Background(), "hello", "", 1.25)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3"), audio)

	assert.Equal(t, "tts-1", got.Model)
	assert.Equal(t, "hello", got.Input)
	assert.Equal(t, DefaultVoice, got.Voice)
	assert.Equal(t, 1.25, got.Speed)
	assert.Equal(t, "mp3", got.ResponseFormat)
}

func TestOpenAISynthesizer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusBadRequest, "bad voice", "status 400"},
		{"empty audio", http.StatusOK, "", "no audio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s := NewOpenAISynthesizer("", server.URL, "tts-1", time.Second)
			_, err := s.Synthesize(context.Background(), "hello", "nova", 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
