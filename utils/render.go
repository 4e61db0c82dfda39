package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"querychart/chart"
)

// RenderTable writes res as a terminal table followed by a row count.
func RenderTable(w io.Writer, res chart.TabularResult) error {
	if len(res.Rows) == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(res.Headers))
	for i, h := range res.Headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, r := range res.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = FormatValue(v)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, err := fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
	return err
}

// RenderSeries writes the numeric series of a chart bundle as a table with
// one column per dataset. Table bundles are rendered as their rows.
func RenderSeries(w io.Writer, b chart.Bundle) error {
	switch {
	case b.Table != nil:
		return RenderTable(w, chart.TabularResult{Headers: b.Table.Headers, Rows: b.Table.Rows})
	case b.Radial != nil:
		res := chart.TabularResult{Headers: []string{"label", "value", "color"}}
		for i, v := range b.Radial.Data {
			res.Rows = append(res.Rows, chart.Row{labelAt(b.Labels, i), v, b.Radial.BackgroundColor[i]})
		}
		return RenderTable(w, res)
	case b.Points != nil:
		res := chart.TabularResult{Headers: []string{"series", "x", "y", "r"}}
		for _, s := range b.Points {
			for _, p := range s.Data {
				res.Rows = append(res.Rows, chart.Row{s.Label, p.X, p.Y, p.R})
			}
		}
		return RenderTable(w, res)
	default:
		res := chart.TabularResult{Headers: []string{"label"}}
		for _, s := range b.Series {
			res.Headers = append(res.Headers, s.Label)
		}
		for i := range b.Labels {
			row := chart.Row{labelAt(b.Labels, i)}
			for _, s := range b.Series {
				row = append(row, s.Data[i])
			}
			res.Rows = append(res.Rows, row)
		}
		return RenderTable(w, res)
	}
}

func labelAt(labels []any, i int) any {
	if i < len(labels) {
		return labels[i]
	}
	return nil
}

// FormatValue renders a cell for terminal output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case decimal.Decimal:
		return x.String()
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
