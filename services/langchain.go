package services

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// LangChainCompleter adapts any langchaingo model.
type LangChainCompleter struct {
	llm llms.Model
}

// NewLangChainCompleter connects langchaingo's OpenAI-compatible client.
func NewLangChainCompleter(token, model, baseURL string) (*LangChainCompleter, error) {
	opts := []lcopenai.Option{lcopenai.WithToken(token)}
	if model != "" {
		opts = append(opts, lcopenai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}
	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create langchain client: %w", err)
	}
	return &LangChainCompleter{llm: llm}, nil
}

// NewLangChainModel wraps an existing model.
func NewLangChainModel(llm llms.Model) *LangChainCompleter {
	return &LangChainCompleter{llm: llm}
}

func (c *LangChainCompleter) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithMaxTokens(p.MaxTokens),
		llms.WithTemperature(p.Temperature),
		llms.WithTopK(p.TopK),
		llms.WithTopP(p.TopP),
	)
	if err != nil {
		return "", fmt.Errorf("langchain generation error: %w", err)
	}
	return out, nil
}
