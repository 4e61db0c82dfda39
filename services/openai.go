package services

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompleter uses the chat completions API of OpenAI or a compatible
// server at BaseURL.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

func NewOpenAICompleter(token, model, baseURL string) *OpenAICompleter {
	cfg := openai.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   p.MaxTokens,
		Temperature: float32(p.Temperature),
		TopP:        float32(p.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from LLM")
	}
	return resp.Choices[0].Message.Content, nil
}
