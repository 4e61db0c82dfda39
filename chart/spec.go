package chart

// Family names a chart type. The set is closed; see Families.
type Family string

const (
	Bar       Family = "bar"
	Line      Family = "line"
	Radar     Family = "radar"
	Pie       Family = "pie"
	Doughnut  Family = "doughnut"
	PolarArea Family = "polarArea"
	Bubble    Family = "bubble"
	Scatter   Family = "scatter"
	TableType Family = "table"
)

// Families lists every supported chart type in a stable order.
var Families = []Family{Bar, Line, Radar, Pie, Doughnut, PolarArea, Bubble, Scatter, TableType}

// Config is the loosely typed visualization request as it arrives from a
// client or a config file. Spec narrows it to the variant of its family.
type Config struct {
	ChartType   Family   `json:"chartType" yaml:"chartType"`
	XField      string   `json:"xField,omitempty" yaml:"xField,omitempty"`
	YFields     []string `json:"yFields,omitempty" yaml:"yFields,omitempty"`
	RadiusField string   `json:"rField,omitempty" yaml:"rField,omitempty"`
	LabelField  string   `json:"labelsField,omitempty" yaml:"labelsField,omitempty"`
	XAxisLabel  string   `json:"customXAxisLabel,omitempty" yaml:"customXAxisLabel,omitempty"`
	YAxisLabel  string   `json:"customYAxisLabel,omitempty" yaml:"customYAxisLabel,omitempty"`
}

// Axes carries display-only axis titles.
type Axes struct {
	XLabel string
	YLabel string
}

// Spec is a visualization config narrowed to one chart family. The
// implementations are Categorical, Radial, BubbleSpec, ScatterSpec and
// TableSpec.
type Spec interface {
	Family() Family
	build(TabularResult) (Bundle, error)
}

// Categorical plots one series per y field against x labels.
type Categorical struct {
	Type    Family // Bar, Line or Radar
	XField  string
	YFields []string
	Axes    Axes
}

// Radial plots the first y field as slices labelled by LabelField, or by
// XField when LabelField is empty.
type Radial struct {
	Type       Family // Pie, Doughnut or PolarArea
	XField     string
	YField     string
	LabelField string
}

// BubbleSpec plots one series of (x, y, r) points per y field.
type BubbleSpec struct {
	XField      string
	YFields     []string
	RadiusField string
	Axes        Axes
}

// ScatterSpec plots one series of (x, y) points per y field.
type ScatterSpec struct {
	XField  string
	YFields []string
	Axes    Axes
}

// TableSpec passes the result through unchanged.
type TableSpec struct{}

func (s Categorical) Family() Family { return s.Type }
func (s Radial) Family() Family      { return s.Type }
func (BubbleSpec) Family() Family    { return Bubble }
func (ScatterSpec) Family() Family   { return Scatter }
func (TableSpec) Family() Family     { return TableType }

// families maps each chart type to the constructor of its Spec variant.
var families = map[Family]func(Config) Spec{
	Bar:       categorical,
	Line:      categorical,
	Radar:     categorical,
	Pie:       radial,
	Doughnut:  radial,
	PolarArea: radial,
	Bubble: func(c Config) Spec {
		return BubbleSpec{XField: c.XField, YFields: cloneStrings(c.YFields), RadiusField: c.RadiusField, Axes: c.axes()}
	},
	Scatter: func(c Config) Spec {
		return ScatterSpec{XField: c.XField, YFields: cloneStrings(c.YFields), Axes: c.axes()}
	},
	TableType: func(Config) Spec { return TableSpec{} },
}

func categorical(c Config) Spec {
	return Categorical{Type: c.ChartType, XField: c.XField, YFields: cloneStrings(c.YFields), Axes: c.axes()}
}

func radial(c Config) Spec {
	s := Radial{Type: c.ChartType, XField: c.XField, LabelField: c.LabelField}
	if len(c.YFields) > 0 {
		s.YField = c.YFields[0]
	}
	return s
}

// Supported reports whether f is a known chart type.
func Supported(f Family) bool {
	_, ok := families[f]
	return ok
}

// Spec narrows c to the variant of its chart type. Fields the family does
// not use are dropped.
func (c Config) Spec() (Spec, error) {
	newSpec, ok := families[c.ChartType]
	if !ok {
		return nil, &UnsupportedChartFamilyError{Family: c.ChartType}
	}
	return newSpec(c), nil
}

func (c Config) axes() Axes {
	return Axes{XLabel: c.XAxisLabel, YLabel: c.YAxisLabel}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
