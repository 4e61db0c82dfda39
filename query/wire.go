package query

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"querychart/chart"
	"querychart/services"
)

// Result is a chart.TabularResult on the wire: the pair [headers, rows].
// The object form {"headers": [...], "rows": [...]} is accepted on input.
type Result struct {
	chart.TabularResult
}

func (r Result) MarshalJSON() ([]byte, error) {
	headers, rows := r.Headers, r.Rows
	if headers == nil {
		headers = []string{}
	}
	if rows == nil {
		rows = []chart.Row{}
	}
	return json.Marshal([2]any{headers, rows})
}

func (r *Result) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		return decodeStrict(b, &r.TabularResult)
	}

	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("result must be [headers, rows]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("result must be [headers, rows], got %d elements", len(pair))
	}
	if err := decodeStrict(pair[0], &r.Headers); err != nil {
		return fmt.Errorf("invalid headers: %w", err)
	}
	if err := decodeStrict(pair[1], &r.Rows); err != nil {
		return fmt.Errorf("invalid rows: %w", err)
	}
	return nil
}

// decodeStrict decodes numbers as json.Number so large integers survive.
func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}

type QueryRequest struct {
	Query        string `json:"query"`
	DatabaseName string `json:"databaseName,omitempty"`
	// SQL marks Query as SQL rather than natural language.
	SQL bool `json:"sql,omitempty"`
}

type QueryResponse struct {
	ID     string `json:"id"`
	Query  string `json:"query"`
	SQL    string `json:"sql"`
	Result Result `json:"result"`
}

type ChartRequest struct {
	Result Result        `json:"result"`
	Config *chart.Config `json:"config,omitempty"`
}

// ChartResponse is a bundle in chart.js form. Table bundles carry
// columns, headers and rows in Data.
type ChartResponse struct {
	Type    chart.Family           `json:"type"`
	Data    map[string]interface{} `json:"data"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type VisualizeRequest struct {
	QueryRequest
	Config *chart.Config `json:"config,omitempty"`
}

type VisualizeResponse struct {
	QueryResponse
	Chart ChartResponse `json:"chart"`
}

type DashboardRequest struct {
	QueryRequest
	Charts []chart.Config `json:"charts"`
}

// DashboardChart is one widget of a dashboard; Error is set instead of the
// chart when its config does not fit the result.
type DashboardChart struct {
	*ChartResponse
	Error string `json:"error,omitempty"`
}

type DashboardResponse struct {
	QueryResponse
	Charts []DashboardChart `json:"charts"`
}

type SuggestRequest struct {
	Result Result `json:"result"`
	Prompt string `json:"prompt"`
}

type SuggestResponse struct {
	Config   chart.Config `json:"config"`
	Fallback bool         `json:"fallback"`
}

type ContextUpdate struct {
	Context []services.Exchange `json:"context"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = errors.New("invalid request body")
