package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"querychart/chart"
	"querychart/database"
	"querychart/utils"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	ChartType string
	Format    string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a read-only SQL query and print the result or its chart data",
		Example: `  # Print rows
  querychart query "SELECT region, SUM(amount) AS total FROM sales GROUP BY region"

  # Print the bar chart series of the result
  querychart query --database analytics --chart bar "SELECT month, revenue FROM kpis"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			sql := strings.Join(args, " ")
			if !utils.ValidateSQL(sql) {
				return errors.New("query contains forbidden operations")
			}

			dbs, err := database.Open(cmd.Context(), cfg.DefaultDatabase, cfg.Databases)
			if err != nil {
				return err
			}
			defer func() { _ = dbs.Close() }()

			src, err := dbs.Lookup("")
			if err != nil {
				return err
			}
			res, err := src.Query(cmd.Context(), sql)
			if err != nil {
				return err
			}
			logger.Debug("query finished", "rows", len(res.Rows))

			if opts.ChartType == "" {
				return utils.RenderTable(cmd.OutOrStdout(), res)
			}
			b, err := chart.Build(res, chart.DefaultConfig(chart.Family(opts.ChartType), res.Headers))
			if err != nil {
				return fmt.Errorf("failed to build chart: %w", err)
			}
			return writeBundle(cmd.OutOrStdout(), b, opts.Format)
		},
	}

	cmd.Flags().StringVar(&opts.ChartType, "chart", "", "build this chart type from the result")
	cmd.Flags().StringVar(&opts.Format, "format", FormatTable, "chart output format (json|chartjs|table)")

	return cmd
}
