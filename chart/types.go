// Package chart turns a tabular query result into the series structure a
// chart renderer consumes.
//
// The package is pure: Build reads its arguments, allocates a fresh Bundle
// and never logs, blocks or touches shared state, so it may be called
// concurrently for every widget on a page.
package chart

// Row is one record of a query result, positionally aligned with the
// result headers. Cells are scalars: string, a numeric kind, bool,
// decimal.Decimal or nil.
type Row []any

// TabularResult is the headers+rows relation returned by query execution.
// Every row is expected to have len(Headers) cells.
type TabularResult struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Series is one dataset of a categorical chart (bar, line, radar).
type Series struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	Fill            bool      `json:"fill"`
}

// RadialSeries is the single dataset of a pie, doughnut or polarArea chart.
// Every point carries its own colour.
type RadialSeries struct {
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
}

// Point is a positioned value. R is only set for bubble charts; a bubble
// radius never coerces to zero so omitting it for scatter points is lossless.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r,omitempty"`
}

// PointSeries is one dataset of a bubble or scatter chart.
type PointSeries struct {
	Label           string  `json:"label"`
	Data            []Point `json:"data"`
	BackgroundColor string  `json:"backgroundColor"`
}

// Column describes one column of a table bundle.
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

// Table is the pass-through bundle of the table family.
type Table struct {
	Columns []Column `json:"columns"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// AxisTitle is the title of one chart axis. Display is false whenever Text
// is empty.
type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// Axis holds the rendering options of one scale.
type Axis struct {
	Title AxisTitle `json:"title"`
}

// Scales holds the x and y axis options.
type Scales struct {
	X Axis `json:"x"`
	Y Axis `json:"y"`
}

// Legend toggles the chart legend.
type Legend struct {
	Display bool `json:"display"`
}

// Plugins holds renderer plugin options.
type Plugins struct {
	Legend Legend `json:"legend"`
}

// Options are the rendering options attached to cartesian bundles.
type Options struct {
	Plugins Plugins `json:"plugins"`
	Scales  Scales  `json:"scales"`
}

// Bundle is the renderer-facing output of Build. Exactly one of Series,
// Radial, Points or Table is populated, depending on Family.
type Bundle struct {
	Family  Family        `json:"type"`
	Labels  []any         `json:"labels,omitempty"`
	Series  []Series      `json:"series,omitempty"`
	Radial  *RadialSeries `json:"radial,omitempty"`
	Points  []PointSeries `json:"points,omitempty"`
	Table   *Table        `json:"table,omitempty"`
	Options *Options      `json:"options,omitempty"`
}
