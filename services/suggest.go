package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"querychart/chart"
)

// sampleRows bounds how much of a result is shown to the model.
const sampleRows = 20

var suggestParams = Params{MaxTokens: 400, Temperature: 0.3, TopK: 10, TopP: 0.9}

// Suggester asks a model which visualization fits a result.
type Suggester struct {
	llm    Completer
	logger *slog.Logger
}

func NewSuggester(llm Completer, logger *slog.Logger) *Suggester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{llm: llm, logger: logger}
}

// Suggest returns a config that builds successfully against res. When the
// model fails or proposes an unusable config, the first column is plotted
// against the rest as a bar chart and fellBack is true.
func (s *Suggester) Suggest(ctx context.Context, res chart.TabularResult, prompt string) (cfg chart.Config, fellBack bool) {
	cfg, err := s.ask(ctx, res, prompt)
	if err == nil {
		_, err = chart.Build(res, cfg)
	}
	if err != nil {
		s.logger.Warn("using default chart config", "error", err)
		return chart.DefaultConfig(chart.Bar, res.Headers), true
	}
	return cfg, false
}

func (s *Suggester) ask(ctx context.Context, res chart.TabularResult, prompt string) (chart.Config, error) {
	sample := res.Rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}
	dataJSON, err := json.Marshal(map[string]any{"headers": res.Headers, "rows": sample})
	if err != nil {
		return chart.Config{}, fmt.Errorf("failed to marshal input data: %w", err)
	}

	families := make([]string, len(chart.Families))
	for i, f := range chart.Families {
		families[i] = string(f)
	}

	fullPrompt := fmt.Sprintf(`You are a data visualization expert. Given the following query result and user prompt, choose how to chart it.

User Prompt: %s

Query Result (JSON): %s

Return a JSON object with these fields:
- chartType (one of: %s)
- xField (column for the x axis or categories)
- yFields (array of columns to plot as series)
- rField (optional bubble radius column)
- labelsField (optional label column for pie, doughnut and polarArea)
- customXAxisLabel (x-axis title)
- customYAxisLabel (y-axis title)

Every field name must be one of the result headers.
IMPORTANT: Return ONLY a valid JSON matching this structure.`, prompt, string(dataJSON), strings.Join(families, ", "))

	out, err := s.llm.Complete(ctx, fullPrompt, suggestParams)
	if err != nil {
		return chart.Config{}, fmt.Errorf("LLM chart configuration generation error: %w", err)
	}
	return parseConfig(out)
}

// parseConfig reads the JSON object embedded in a model reply.
func parseConfig(text string) (chart.Config, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return chart.Config{}, errors.New("could not extract valid JSON from LLM response")
	}

	var cfg chart.Config
	if err := json.Unmarshal([]byte(text[start:end+1]), &cfg); err != nil {
		return chart.Config{}, fmt.Errorf("failed to parse LLM response JSON: %w", err)
	}
	if cfg.ChartType == "" {
		return chart.Config{}, errors.New("invalid chart configuration: missing chartType")
	}
	return cfg, nil
}
