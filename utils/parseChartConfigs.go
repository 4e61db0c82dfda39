package utils

import "querychart/chart"

// ParseBundleToChartJS converts a bundle to the chart.js "data" and
// "options" objects. Options is nil for radial charts and tables.
func ParseBundleToChartJS(b chart.Bundle) (map[string]interface{}, map[string]interface{}) {
	data := map[string]interface{}{}

	switch {
	case b.Table != nil:
		data["columns"] = b.Table.Columns
		data["headers"] = b.Table.Headers
		data["rows"] = b.Table.Rows
	case b.Radial != nil:
		data["labels"] = b.Labels
		data["datasets"] = []map[string]interface{}{
			{
				"data":            b.Radial.Data,
				"backgroundColor": b.Radial.BackgroundColor,
			},
		}
	case b.Points != nil:
		datasets := make([]map[string]interface{}, len(b.Points))
		for i, s := range b.Points {
			datasets[i] = map[string]interface{}{
				"label":           s.Label,
				"data":            s.Data,
				"backgroundColor": s.BackgroundColor,
			}
		}
		data["datasets"] = datasets
	default:
		datasets := make([]map[string]interface{}, len(b.Series))
		for i, s := range b.Series {
			datasets[i] = map[string]interface{}{
				"label":           s.Label,
				"data":            s.Data,
				"backgroundColor": s.BackgroundColor,
				"borderColor":     s.BorderColor,
				"fill":            s.Fill,
			}
		}
		data["labels"] = b.Labels
		data["datasets"] = datasets
	}

	if b.Options == nil {
		return data, nil
	}
	options := map[string]interface{}{
		"plugins": map[string]interface{}{
			"legend": map[string]interface{}{
				"display": b.Options.Plugins.Legend.Display,
			},
		},
		"scales": map[string]interface{}{
			"x": map[string]interface{}{
				"title": map[string]interface{}{
					"display": b.Options.Scales.X.Title.Display,
					"text":    b.Options.Scales.X.Title.Text,
				},
			},
			"y": map[string]interface{}{
				"title": map[string]interface{}{
					"display": b.Options.Scales.Y.Title.Display,
					"text":    b.Options.Scales.Y.Title.Text,
				},
			},
		},
	}
	return data, options
}
