package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"querychart/chart"
)

var pieResult = chart.TabularResult{
	Headers: []string{"category", "count"},
	Rows:    []chart.Row{{"A", 3}, {"B", 5}},
}

func TestParseBundleToChartJS_Bar(t *testing.T) {
	b, err := chart.Build(pieResult, chart.Config{ChartType: chart.Bar, XField: "category", YFields: []string{"count"}, YAxisLabel: "Count"})
	require.NoError(t, err)

	data, options := ParseBundleToChartJS(b)
	raw, err := json.Marshal(map[string]interface{}{"data": data, "options": options})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"data": {
			"labels": ["A", "B"],
			"datasets": [{
				"label": "count",
				"data": [3, 5],
				"backgroundColor": "rgba(75, 192, 192, 0.6)",
				"borderColor": "rgba(75, 192, 192, 0.6)",
				"fill": false
			}]
		},
		"options": {
			"plugins": {"legend": {"display": true}},
			"scales": {
				"x": {"title": {"display": false, "text": ""}},
				"y": {"title": {"display": true, "text": "Count"}}
			}
		}
	}`, string(raw))
}

func TestParseBundleToChartJS_Pie(t *testing.T) {
	b, err := chart.Build(pieResult, chart.Config{ChartType: chart.Pie, YFields: []string{"count"}})
	require.NoError(t, err)

	data, options := ParseBundleToChartJS(b)
	assert.Nil(t, options)
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"labels": ["A", "B"],
		"datasets": [{"data": [3, 5], "backgroundColor": ["rgba(75, 192, 192, 0.6)", "rgba(255, 99, 132, 0.6)"]}]
	}`, string(raw))
}

func TestParseBundleToChartJS_Bubble(t *testing.T) {
	res := chart.TabularResult{Headers: []string{"x", "y"}, Rows: []chart.Row{{1, 2}}}
	b, err := chart.Build(res, chart.Config{ChartType: chart.Bubble})
	require.NoError(t, err)

	data, options := ParseBundleToChartJS(b)
	assert.NotNil(t, options)
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"datasets": [{"label": "y", "data": [{"x": 1, "y": 2, "r": 5}], "backgroundColor": "rgba(75, 192, 192, 0.6)"}]}`, string(raw))
}

func TestRenderSeries(t *testing.T) {
	b, err := chart.Build(pieResult, chart.Config{ChartType: chart.Line})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderSeries(&buf, b))
	out := buf.String()
	assert.Contains(t, out, "label")
	assert.Contains(t, out, "count")
	assert.Contains(t, out, "(2 rows)")

	buf.Reset()
	require.NoError(t, RenderTable(&buf, chart.TabularResult{Headers: []string{"a"}}))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "x", FormatValue([]byte("x")))
	assert.Equal(t, "7", FormatValue(7))
}
