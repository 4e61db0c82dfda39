package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/go-huggingface"
)

// HuggingFaceCompleter uses the Hugging Face inference API.
type HuggingFaceCompleter struct {
	client *huggingface.InferenceClient
	model  string
}

func NewHuggingFaceCompleter(token, model string) *HuggingFaceCompleter {
	return &HuggingFaceCompleter{client: huggingface.NewInferenceClient(token), model: model}
}

func (c *HuggingFaceCompleter) Complete(ctx context.Context, prompt string, p Params) (string, error) {
	req := &huggingface.TextGenerationRequest{
		Inputs: prompt,
		Model:  c.model,
		Parameters: huggingface.TextGenerationParameters{
			MaxNewTokens:   intPtr(p.MaxTokens),
			Temperature:    float64Ptr(p.Temperature),
			TopK:           intPtr(p.TopK),
			TopP:           float64Ptr(p.TopP),
			ReturnFullText: boolPtr(false),
		},
	}

	res, err := c.client.TextGeneration(ctx, req)
	if err != nil {
		return "", fmt.Errorf("text generation error: %w", err)
	}
	if len(res) == 0 {
		return "", errors.New("no response from LLM")
	}
	return res[0].GeneratedText, nil
}
