package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatshare-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"hello back"},"done":true}`))
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "llama3", time.Second, llm.RetryPolicy{})
	reply, err := p.Chat(context.Background(), []llm.Message{
		{Role: "user", Content: "hello"},
		{Role: "model", Content: "earlier answer"},
	}, llm.WithMaxTokens(32))

	require.NoError(t, err)
	assert.Equal(t, "hello back", reply)
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	require.NotNil(t, got.Options)
	assert.Equal(t, 32, got.Options.NumPredict)
	assert.Equal(t, 0.7, got.Options.Temperature)
}

func TestOllamaProvider_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "missing", time.Second, llm.RetryPolicy{MaxRetries: 3, BackoffBase: time.Millisecond})
	_, err := p.Generate(context.Background(), "hi")

	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "model not found")
}

func TestOllamaProvider_Defaults(t *testing.T) {
	p := NewOllamaProvider("", "llama3", 0, llm.RetryPolicy{})
	assert.Equal(t, DefaultBaseURL, p.BaseURL)
	assert.Equal(t, 120*time.Second, p.Client.Timeout)
}
