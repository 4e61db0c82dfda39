package services

import (
	"context"
	"fmt"
)

// Params tunes a single completion.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopK        int
	TopP        float64
}

// Completer sends a prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string, p Params) (string, error)
}

// LLMConfig selects and configures the completer.
type LLMConfig struct {
	// Provider is "huggingface", "openai" or "langchain".
	Provider string `koanf:"provider"`
	APIKey   string `koanf:"api_key"`
	Model    string `koanf:"model"`
	BaseURL  string `koanf:"base_url"`
}

// NewCompleter builds the completer named by cfg.Provider.
func NewCompleter(cfg LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case "huggingface", "":
		return NewHuggingFaceCompleter(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAICompleter(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "langchain":
		return NewLangChainCompleter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

func intPtr(i int) *int {
	return &i
}

func float64Ptr(f float64) *float64 {
	return &f
}

func boolPtr(b bool) *bool {
	return &b
}
