package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"querychart/chart"
	"querychart/query"
	"querychart/utils"
)

const (
	FormatJSON    = "json"
	FormatChartJS = "chartjs"
	FormatTable   = "table"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	ResultFile string
	ConfigFile string // visualization config
	ChartType  string
	Format     string
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build chart data from a saved query result",
		Long: `Build chart data from a query result stored as JSON, either the pair
[headers, rows] or an object {"headers": [...], "rows": [...]}.

The visualization config is read from a YAML or JSON file. Without one the
first column is plotted against the others.`,
		Example: `  # chart.js data for a bar chart
  querychart build --result result.json --viz viz.yaml --format chartjs

  # Quick look at a pie chart in the terminal
  querychart build --result result.json --chart pie --format table`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.ResultFile, "result", "-", "result JSON file (- for stdin)")
	cmd.Flags().StringVar(&opts.ConfigFile, "viz", "", "visualization config file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.ChartType, "chart", "", "chart type, overrides the config file")
	cmd.Flags().StringVar(&opts.Format, "format", FormatJSON, "output format (json|chartjs|table)")

	_ = cmd.RegisterFlagCompletionFunc("chart", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(chart.Families))
		for i, f := range chart.Families {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runBuild(stdin io.Reader, w io.Writer, opts *BuildOptions) error {
	res, err := readResult(stdin, opts.ResultFile)
	if err != nil {
		return err
	}

	cfg := chart.DefaultConfig(chart.Bar, res.Headers)
	if opts.ConfigFile != "" {
		cfg, err = readVizConfig(opts.ConfigFile)
		if err != nil {
			return err
		}
	}
	if opts.ChartType != "" {
		cfg.ChartType = chart.Family(opts.ChartType)
	}

	b, err := chart.Build(res, cfg)
	if err != nil {
		return err
	}
	return writeBundle(w, b, opts.Format)
}

func readResult(stdin io.Reader, path string) (chart.TabularResult, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" || path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return chart.TabularResult{}, fmt.Errorf("failed to read result: %w", err)
	}

	var res query.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return chart.TabularResult{}, fmt.Errorf("failed to parse result: %w", err)
	}
	return res.TabularResult, nil
}

func readVizConfig(path string) (chart.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chart.Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg chart.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return chart.Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func writeBundle(w io.Writer, b chart.Bundle, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case FormatChartJS:
		data, options := utils.ParseBundleToChartJS(b)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(query.ChartResponse{Type: b.Family, Data: data, Options: options})
	case FormatTable:
		return utils.RenderSeries(w, b)
	default:
		return fmt.Errorf("unknown format %q (want json, chartjs or table)", format)
	}
}
