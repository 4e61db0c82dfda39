package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"querychart/chart"
	"querychart/database"
	"querychart/testutil"
)

// scripted replies with canned outputs in order and records the prompts.
type scripted struct {
	mu      sync.Mutex
	replies []string
	err     error
	prompts []string
}

func (s *scripted) Complete(_ context.Context, prompt string, _ Params) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no reply scripted")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

var employees = []database.TableSchema{
	{Name: "employees", Columns: []database.ColumnSchema{
		{Name: "name", Type: "varchar(100)"},
		{Name: "salary", Type: "numeric(10,2)", Nullable: true},
	}},
}

func TestTranslator_Translate(t *testing.T) {
	llm := &scripted{replies: []string{
		"```sql\nSELECT name, salary FROM staff\n```",
		"SELECT name, salary FROM employees ORDER BY salary DESC",
		"Sure! Here it is:\nSELECT name, salary\nFROM employees ORDER BY salary DESC;\nThis lists salaries.",
	}}
	tr := NewTranslator(llm, NewHistory(10), testutil.NewTestLogger(t))

	ex, err := tr.Translate(context.Background(), "show salaries", employees)
	require.NoError(t, err)
	assert.Equal(t, "SELECT name, salary FROM employees ORDER BY salary DESC", ex.SQL)
	assert.Equal(t, "show salaries", ex.Prompt)
	assert.NotEmpty(t, ex.ID)

	require.Len(t, llm.prompts, 3)
	assert.Contains(t, llm.prompts[0], "show salaries")
	assert.Contains(t, llm.prompts[1], "salary (numeric(10,2))")
	assert.Contains(t, llm.prompts[1], "name (varchar(100) NOT NULL)")
	assert.Contains(t, llm.prompts[1], "SELECT name, salary FROM staff")
	assert.Contains(t, llm.prompts[2], "ORDER BY salary DESC")

	assert.Equal(t, []Exchange{ex}, tr.History().Entries())

	// the next question carries the previous exchange
	llm.replies = []string{"SELECT 1", "SELECT 1", "SELECT 1"}
	_, err = tr.Translate(context.Background(), "and the average?", employees)
	require.NoError(t, err)
	assert.Contains(t, llm.prompts[3], "show salaries")
	assert.Len(t, tr.History().Entries(), 2)
}

func TestTranslator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		llm     *scripted
		wantErr string
	}{
		{
			name:    "llm failure",
			llm:     &scripted{err: assert.AnError},
			wantErr: "initial query generation error",
		},
		{
			name:    "not sql",
			llm:     &scripted{replies: []string{"I cannot help with that"}},
			wantErr: "does not appear to be a valid query",
		},
		{
			name:    "empty refinement",
			llm:     &scripted{replies: []string{"SELECT 1", "   "}},
			wantErr: "refined query is empty",
		},
		{
			name:    "nothing to extract",
			llm:     &scripted{replies: []string{"SELECT 1", "SELECT 1", "no query here"}},
			wantErr: ErrNoQuery.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTranslator(tt.llm, nil, testutil.NewTestLogger(t))
			_, err := tr.Translate(context.Background(), "q", employees)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, tr.History().Entries())
		})
	}
}

func TestExtractSQLQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "terminated", in: "Query: SELECT a FROM t; trailing", want: "SELECT a FROM t"},
		{name: "fenced", in: "```sql\nselect a\nfrom t\n```", want: "select a from t"},
		{name: "cte", in: "Use this: WITH x AS (SELECT 1) SELECT * FROM x;", want: "WITH x AS (SELECT 1) SELECT * FROM x"},
		{name: "prose with", in: "Here is a query with a join: SELECT a FROM t JOIN u ON t.id = u.id", want: "SELECT a FROM t JOIN u ON t.id = u.id"},
		{name: "none", in: "nothing", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSQLQuery(tt.in))
		})
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(2)
	h.Add("a", "SELECT 1")
	h.Add("b", "SELECT 2")
	h.Add("c", "SELECT 3")

	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Prompt)
	assert.Equal(t, "c", entries[1].Prompt)

	h.Replace([]Exchange{{Prompt: "x", SQL: "SELECT 9"}})
	entries = h.Entries()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)

	h.Clear()
	assert.Empty(t, h.Entries())
}

var categories = chart.TabularResult{
	Headers: []string{"category", "count"},
	Rows:    []chart.Row{{"A", 3}, {"B", 5}},
}

func TestSuggester(t *testing.T) {
	tests := []struct {
		name         string
		llm          *scripted
		want         chart.Config
		wantFellBack bool
	}{
		{
			name: "valid suggestion",
			llm:  &scripted{replies: []string{`Here you go: {"chartType": "pie", "yFields": ["count"], "labelsField": "category"} enjoy`}},
			want: chart.Config{ChartType: chart.Pie, YFields: []string{"count"}, LabelField: "category"},
		},
		{
			name:         "unknown field",
			llm:          &scripted{replies: []string{`{"chartType": "bar", "xField": "nope"}`}},
			want:         chart.Config{ChartType: chart.Bar, XField: "category", YFields: []string{"count"}},
			wantFellBack: true,
		},
		{
			name:         "unsupported family",
			llm:          &scripted{replies: []string{`{"chartType": "area"}`}},
			want:         chart.Config{ChartType: chart.Bar, XField: "category", YFields: []string{"count"}},
			wantFellBack: true,
		},
		{
			name:         "no json",
			llm:          &scripted{replies: []string{"bar chart please"}},
			want:         chart.Config{ChartType: chart.Bar, XField: "category", YFields: []string{"count"}},
			wantFellBack: true,
		},
		{
			name:         "llm failure",
			llm:          &scripted{err: assert.AnError},
			want:         chart.Config{ChartType: chart.Bar, XField: "category", YFields: []string{"count"}},
			wantFellBack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSuggester(tt.llm, testutil.NewTestLogger(t))
			got, fellBack := s.Suggest(context.Background(), categories, "share per category")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFellBack, fellBack)
			require.Len(t, tt.llm.prompts, 1)
			assert.Contains(t, tt.llm.prompts[0], "share per category")
			assert.Contains(t, tt.llm.prompts[0], "polarArea")
		})
	}
}

func TestNewCompleter(t *testing.T) {
	c, err := NewCompleter(LLMConfig{Provider: "huggingface", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &HuggingFaceCompleter{}, c)

	c, err = NewCompleter(LLMConfig{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompleter{}, c)

	_, err = NewCompleter(LLMConfig{Provider: "bard"})
	assert.Error(t, err)
}
