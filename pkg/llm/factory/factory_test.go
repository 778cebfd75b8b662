package factory

import (
	"testing"

	"chatshare-be/pkg/llm/ollama"
	"chatshare-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(Config{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &ollama.OllamaProvider{}, p)

	p, err = NewLLMProvider(Config{Provider: "openai", APIKey: "sk-test", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	p, err = NewLLMProvider(Config{Provider: "openai", BaseURL: "http://localhost:8000/v1"})
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewLLMProvider(Config{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(Config{Provider: "gemini"})
	assert.EqualError(t, err, "unsupported LLM provider: gemini")
}
