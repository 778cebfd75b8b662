package service

import (
	"context"
	"strings"

	"chatshare-be/internal/pkg/logger"
	"chatshare-be/pkg/llm"
)

const titleSystemPrompt = "Summarize the conversation into a short title (3-6 words). Return only the title."

// maxTitleLength matches the chats.title column.
const maxTitleLength = 255

// ITitleSummarizer names a chat from its first exchange. It returns "" when
// no title could be produced and never fails the caller.
type ITitleSummarizer interface {
	Summarize(ctx context.Context, prompt, response string) string
}

type titleSummarizer struct {
	provider llm.LLMProvider
	model    string
	logger   logger.ILogger
}

func NewTitleSummarizer(provider llm.LLMProvider, model string, log logger.ILogger) ITitleSummarizer {
	return &titleSummarizer{
		provider: provider,
		model:    model,
		logger:   log,
	}
}

func (t *titleSummarizer) Summarize(ctx context.Context, prompt, response string) string {
	if t.provider == nil {
		return ""
	}

	opts := []llm.Option{llm.WithMaxTokens(20), llm.WithTemperature(0.4)}
	if t.model != "" {
		opts = append(opts, llm.WithModel(t.model))
	}

	title, err := t.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: titleSystemPrompt},
		{Role: "user", Content: prompt},
		{Role: "assistant", Content: response},
	}, opts...)
	if err != nil {
		t.logger.Warn("TitleSummarizer", "Title generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}
	return cleanTitle(title)
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'`")
	title = strings.TrimSpace(strings.SplitN(title, "\n", 2)[0])
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = strings.TrimSpace(string(runes[:maxTitleLength]))
	}
	return title
}
