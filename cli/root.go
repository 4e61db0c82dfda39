// Package cli provides the querychart command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"querychart/config"
)

var (
	cfgFile string
	envFile string
)

// Version is set at build time.
var Version = "0.1.0"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "querychart",
		Short: "Turn query results into chart data",
		Long: `querychart answers natural-language and SQL questions against configured
databases and turns the tabular results into chart.js ready series.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(config.Options{
				File:    cfgFile,
				EnvFile: envFile,
				Flags:   cmd.Root().PersistentFlags(),
			})
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("addr", "", "listen address (default :8080)")
	rootCmd.PersistentFlags().String("database", "", "default datasource name")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text|json)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewQueryCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig returns the configuration loaded for the running command.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Addr:            config.DefaultAddr,
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultDatabase: config.DefaultDatabase,
	}
}

// GetLogger returns the logger built for the running command.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
