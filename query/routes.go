package query

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SetupRoutes registers the query and chart endpoints.
func SetupRoutes(router chi.Router, h *Handler) {
	router.Get("/health", h.HandleHealth)
	router.Get("/databases", h.HandleDatabases)
	router.Get("/schema", h.HandleSchema)

	router.Post("/request", h.HandleRequest)   // natural language
	router.Post("/run-sql", h.HandleRunSQL)    // raw SQL
	router.Post("/chart", h.HandleChart)       // client-supplied result
	router.Post("/visualize", h.HandleVisualize)
	router.Post("/dashboard", h.HandleDashboard)
	router.Post("/suggest", h.HandleSuggest)

	router.Get("/context", h.HandleContext)
	router.Post("/context/update", h.HandleContextUpdate)
	router.Get("/context-clear", h.HandleContextClear)
	router.Post("/context-clear", h.HandleContextClear)
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
