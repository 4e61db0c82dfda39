package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	CORSDebug      bool
	Handler        *Handler
	Logger         *slog.Logger
}

// Server serves the query API.
type Server struct {
	addr   string
	router http.Handler
	logger *slog.Logger
}

// NewServer builds the router: request ids, panic recovery, slog request
// logging and CORS around the endpoints.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(logger),
		middleware.Recoverer,
	)
	SetupRoutes(r, cfg.Handler)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"POST", "GET", "OPTIONS", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		Debug:          cfg.CORSDebug,
	})

	return &Server{addr: cfg.Addr, router: c.Handler(r), logger: logger}
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
