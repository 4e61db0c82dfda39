package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"querychart/chart"
	"querychart/database"
	"querychart/services"
	"querychart/utils"
)

var (
	// ErrForbiddenSQL rejects statements other than a single read query.
	ErrForbiddenSQL = errors.New("query contains forbidden operations")
	// ErrNoTranslator is returned for natural-language queries when no LLM is configured.
	ErrNoTranslator = errors.New("natural-language queries are not configured")
	// ErrTranslation wraps failures of the language model.
	ErrTranslation = errors.New("query translation failed")
)

// Handler serves the query and chart endpoints.
type Handler struct {
	dbs        *database.Registry
	translator *services.Translator
	suggester  *services.Suggester
	logger     *slog.Logger
}

// NewHandler wires the endpoints. translator and suggester may be nil, in
// which case the endpoints that need them answer 503.
func NewHandler(dbs *database.Registry, translator *services.Translator, suggester *services.Suggester, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{dbs: dbs, translator: translator, suggester: suggester, logger: logger}
}

// HandleRequest answers a natural-language query.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.SQL = false
	resp, err := h.execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleRunSQL executes a read-only SQL query.
func (h *Handler) HandleRunSQL(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.SQL = true
	resp, err := h.execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleChart builds a chart for a result supplied by the client.
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	var req ChartRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := buildChart(req.Result.TabularResult, req.Config)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleVisualize executes a query and charts its result.
func (h *Handler) HandleVisualize(w http.ResponseWriter, r *http.Request) {
	var req VisualizeRequest
	if !h.decode(w, r, &req) {
		return
	}
	qr, err := h.execute(r.Context(), req.QueryRequest)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := buildChart(qr.Result.TabularResult, req.Config)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, VisualizeResponse{QueryResponse: qr, Chart: c})
}

// HandleDashboard executes a query once and builds every requested chart
// from its result concurrently.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if !h.decode(w, r, &req) {
		return
	}
	qr, err := h.execute(r.Context(), req.QueryRequest)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	charts := make([]DashboardChart, len(req.Charts))
	g, ctx := errgroup.WithContext(r.Context())
	for i, cfg := range req.Charts {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := buildChart(qr.Result.TabularResult, &cfg)
			if err != nil {
				charts[i] = DashboardChart{Error: err.Error()}
				return nil
			}
			charts[i] = DashboardChart{ChartResponse: &c}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{QueryResponse: qr, Charts: charts})
}

// HandleSuggest proposes a chart config for a result.
func (h *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		h.fail(w, r, ErrNoTranslator)
		return
	}
	var req SuggestRequest
	if !h.decode(w, r, &req) {
		return
	}
	cfg, fellBack := h.suggester.Suggest(r.Context(), req.Result.TabularResult, req.Prompt)
	writeJSON(w, http.StatusOK, SuggestResponse{Config: cfg, Fallback: fellBack})
}

// HandleContext returns the conversation context.
func (h *Handler) HandleContext(w http.ResponseWriter, r *http.Request) {
	if h.translator == nil {
		h.fail(w, r, ErrNoTranslator)
		return
	}
	writeJSON(w, http.StatusOK, ContextUpdate{Context: h.translator.History().Entries()})
}

// HandleContextUpdate replaces the conversation context.
func (h *Handler) HandleContextUpdate(w http.ResponseWriter, r *http.Request) {
	if h.translator == nil {
		h.fail(w, r, ErrNoTranslator)
		return
	}
	var req ContextUpdate
	if !h.decode(w, r, &req) {
		return
	}
	h.translator.History().Replace(req.Context)
	writeJSON(w, http.StatusOK, ContextUpdate{Context: h.translator.History().Entries()})
}

// HandleContextClear forgets the conversation context.
func (h *Handler) HandleContextClear(w http.ResponseWriter, r *http.Request) {
	if h.translator != nil {
		h.translator.History().Clear()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Context cleared"))
}

// HandleSchema describes the tables of a datasource.
func (h *Handler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	src, err := h.dbs.Lookup(r.URL.Query().Get("databaseName"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	tables, err := src.Schema(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// HandleDatabases lists the configured datasources.
func (h *Handler) HandleDatabases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"databases": h.dbs.Names(),
		"default":   h.dbs.Default(),
	})
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// execute resolves the datasource, translates natural language when needed,
// guards the SQL and runs it.
func (h *Handler) execute(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	if req.Query == "" {
		return QueryResponse{}, fmt.Errorf("%w: query is required", errBadRequest)
	}
	src, err := h.dbs.Lookup(req.DatabaseName)
	if err != nil {
		return QueryResponse{}, err
	}

	resp := QueryResponse{ID: uuid.NewString(), Query: req.Query, SQL: req.Query}
	if !req.SQL {
		if h.translator == nil {
			return QueryResponse{}, ErrNoTranslator
		}
		schema, err := src.Schema(ctx)
		if err != nil {
			return QueryResponse{}, err
		}
		ex, err := h.translator.Translate(ctx, req.Query, schema)
		if err != nil {
			return QueryResponse{}, fmt.Errorf("%w: %w", ErrTranslation, err)
		}
		resp.ID, resp.SQL = ex.ID, ex.SQL
	}

	if !utils.ValidateSQL(resp.SQL) {
		return QueryResponse{}, fmt.Errorf("%w: %s", ErrForbiddenSQL, resp.SQL)
	}

	res, err := src.Query(ctx, resp.SQL)
	if err != nil {
		return QueryResponse{}, err
	}
	h.logger.Info("executed query", "id", resp.ID, "database", req.DatabaseName, "rows", len(res.Rows))
	resp.Result = Result{res}
	return resp, nil
}

// buildChart builds cfg against res; a nil cfg plots the first column
// against the others as a bar chart.
func buildChart(res chart.TabularResult, cfg *chart.Config) (ChartResponse, error) {
	c := chart.DefaultConfig(chart.Bar, res.Headers)
	if cfg != nil {
		c = *cfg
	}
	b, err := chart.Build(res, c)
	if err != nil {
		return ChartResponse{}, err
	}
	data, options := utils.ParseBundleToChartJS(b)
	return ChartResponse{Type: b.Family, Data: data, Options: options}, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, ErrForbiddenSQL),
		errors.Is(err, chart.ErrUnknownField),
		errors.Is(err, chart.ErrUnsupportedChartFamily):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrUnknownDatabase):
		return http.StatusNotFound
	case errors.Is(err, ErrNoTranslator):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTranslation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
