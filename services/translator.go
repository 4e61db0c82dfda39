package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"querychart/database"
)

// ErrNoQuery is returned when the model output contains no usable query.
var ErrNoQuery = errors.New("could not extract a valid query from the LLM response")

var (
	generateParams = Params{MaxTokens: 500, Temperature: 0.5, TopK: 50, TopP: 0.9}
	refineParams   = Params{MaxTokens: 800, Temperature: 0.4, TopK: 50, TopP: 0.95}
	finalParams    = Params{MaxTokens: 800, Temperature: 0.1, TopK: 10, TopP: 0.9}
)

// Translator turns a natural-language question into a single read-only SQL
// query in three passes: draft, refine against the schema, extract.
type Translator struct {
	llm     Completer
	history *History
	logger  *slog.Logger
}

func NewTranslator(llm Completer, history *History, logger *slog.Logger) *Translator {
	if history == nil {
		history = NewHistory(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{llm: llm, history: history, logger: logger}
}

// History returns the conversation context used by the translator.
func (t *Translator) History() *History {
	return t.history
}

// Translate returns the SQL for prompt and records the exchange.
func (t *Translator) Translate(ctx context.Context, prompt string, schema []database.TableSchema) (Exchange, error) {
	initial, err := t.generate(ctx, prompt)
	if err != nil {
		return Exchange{}, fmt.Errorf("initial query generation error: %w", err)
	}
	t.logger.Debug("generated initial query", "query", initial)

	refined, err := t.refine(ctx, initial, schema)
	if err != nil {
		return Exchange{}, fmt.Errorf("query refinement error: %w", err)
	}
	t.logger.Debug("refined query", "query", refined)

	final, err := t.finalize(ctx, refined)
	if err != nil {
		return Exchange{}, fmt.Errorf("final query generation error: %w", err)
	}
	t.logger.Info("translated prompt", "prompt", prompt, "sql", final)
	return t.history.Add(prompt, final), nil
}

func (t *Translator) generate(ctx context.Context, prompt string) (string, error) {
	var b strings.Builder
	if entries := t.history.Entries(); len(entries) > 0 {
		b.WriteString("Previous questions and their queries:\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "- %s\n  %s\n", e.Prompt, e.SQL)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Return ONLY the PostgreSQL query, no explanations or extra text:\n\n%s\n\nPostgreSQL Query:\n", prompt)

	out, err := t.llm.Complete(ctx, b.String(), generateParams)
	if err != nil {
		return "", err
	}
	q := cleanSQL(out)
	if q == "" {
		return "", errors.New("generated query is empty")
	}
	if !hasSQLPrefix(q) {
		return "", fmt.Errorf("generated text does not appear to be a valid query: %s", q)
	}
	return q, nil
}

func (t *Translator) refine(ctx context.Context, initial string, schema []database.TableSchema) (string, error) {
	prompt := fmt.Sprintf(`Generate only the PostgreSQL plain query without any explanation.
You should follow the Database Schema:
%s
Query Requirements:
- replace the tables and columns names with database schema.
- only SELECT statements; use an alias for every aggregate.
- include an ORDER BY clause when possible.
- no explanation or extra text only query.
Query:
%s
PostgreSQL Query:
`, DescribeSchema(schema), initial)

	out, err := t.llm.Complete(ctx, prompt, refineParams)
	if err != nil {
		return "", err
	}
	q := cleanSQL(out)
	if q == "" {
		return "", errors.New("refined query is empty")
	}
	if !hasSQLPrefix(q) {
		return "", fmt.Errorf("generated text does not appear to be a valid query: %s", q)
	}
	return q, nil
}

func (t *Translator) finalize(ctx context.Context, refined string) (string, error) {
	prompt := fmt.Sprintf(`Instruction: Generate ONLY a valid PostgreSQL query based on the following context.
NO ADDITIONAL TEXT. NO EXPLANATION.
PURE SQL QUERY ONLY:
Context: %s
QUERY:`, refined)

	out, err := t.llm.Complete(ctx, prompt, finalParams)
	if err != nil {
		return "", err
	}
	q := extractSQLQuery(out)
	if q == "" {
		return "", ErrNoQuery
	}
	if !hasSQLPrefix(q) {
		return "", fmt.Errorf("generated text does not appear to be a valid query: %s", q)
	}
	return q, nil
}

// DescribeSchema renders tables as prompt context.
func DescribeSchema(schema []database.TableSchema) string {
	var b strings.Builder
	b.WriteString("Database Schema:\n")
	for _, table := range schema {
		b.WriteString("- " + table.Name)
		if table.Description != "" {
			b.WriteString(": " + table.Description)
		}
		b.WriteString("\n  Columns: ")
		for i, col := range table.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s (%s", col.Name, col.Type)
			if !col.Nullable {
				b.WriteString(" NOT NULL")
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}
