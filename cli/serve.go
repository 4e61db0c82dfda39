package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"querychart/database"
	"querychart/query"
	"querychart/services"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var noLLM bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API: natural-language and SQL queries, chart building,
dashboards and chart suggestions. Stops gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve with settings from querychart.yaml
  querychart serve --config querychart.yaml

  # Serve raw SQL and charts only
  querychart serve --no-llm --addr :9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, noLLM)
		},
	}

	cmd.Flags().BoolVar(&noLLM, "no-llm", false, "disable natural-language queries and suggestions")

	return cmd
}

func runServe(cmd *cobra.Command, noLLM bool) error {
	cfg := GetConfig(cmd.Context())
	logger := GetLogger(cmd.Context())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbs, err := database.Open(ctx, cfg.DefaultDatabase, cfg.Databases)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbs.Close(); err != nil {
			logger.Error("failed to close databases", "error", err)
		}
	}()
	if len(dbs.Names()) == 0 {
		logger.Warn("no databases configured; only /chart will be useful")
	}

	var (
		translator *services.Translator
		suggester  *services.Suggester
	)
	if !noLLM {
		if cfg.LLM.APIKey == "" {
			return errors.New("llm.api_key (or API_KEY) is required; use --no-llm to serve without it")
		}
		llm, err := services.NewCompleter(cfg.LLM)
		if err != nil {
			return err
		}
		translator = services.NewTranslator(llm, services.NewHistory(cfg.HistoryLimit), logger)
		suggester = services.NewSuggester(llm, logger)
	}

	server := query.NewServer(query.ServerConfig{
		Addr:           cfg.Addr,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSDebug:      cfg.CORS.Debug,
		Handler:        query.NewHandler(dbs, translator, suggester, logger),
		Logger:         logger,
	})

	return server.Serve(ctx)
}
