package chart

// DefaultRadius is the bubble radius used when no radius field is configured
// or a radius cell does not coerce to a non-zero number.
const DefaultRadius = 5

// Build resolves cfg against the result headers and produces the bundle for
// its chart type. It returns *UnsupportedChartFamilyError for an unknown
// chart type and *UnknownFieldError for a field missing from the headers;
// in both cases no partial bundle is returned.
func Build(result TabularResult, cfg Config) (Bundle, error) {
	spec, err := cfg.Spec()
	if err != nil {
		return Bundle{}, err
	}
	return BuildSpec(result, spec)
}

// BuildSpec is Build for an already narrowed Spec.
func BuildSpec(result TabularResult, spec Spec) (Bundle, error) {
	if spec == nil {
		return Bundle{}, &UnsupportedChartFamilyError{}
	}
	return spec.build(result)
}

// DefaultConfig derives a config from the headers alone: the first column
// is the x axis and every other column is a series.
func DefaultConfig(family Family, headers []string) Config {
	cfg := Config{ChartType: family}
	if len(headers) > 0 {
		cfg.XField = headers[0]
	}
	if len(headers) > 1 {
		cfg.YFields = cloneStrings(headers[1:])
	}
	return cfg
}

func (s Categorical) build(res TabularResult) (Bundle, error) {
	switch s.Type {
	case Bar, Line, Radar:
	default:
		return Bundle{}, &UnsupportedChartFamilyError{Family: s.Type}
	}
	r := resolver(res.Headers)
	x, err := r.x(s.XField)
	if err != nil {
		return Bundle{}, err
	}
	names, ys, err := r.ys(s.YFields)
	if err != nil {
		return Bundle{}, err
	}

	series := make([]Series, len(ys))
	for i, y := range ys {
		series[i] = Series{
			Label:           names[i],
			Data:            numbers(res.Rows, y),
			BackgroundColor: Color(i),
			BorderColor:     Color(i),
			Fill:            s.Type == Radar,
		}
	}
	return Bundle{
		Family:  s.Type,
		Labels:  project(res.Rows, x),
		Series:  series,
		Options: s.Axes.options(),
	}, nil
}

func (s Radial) build(res TabularResult) (Bundle, error) {
	switch s.Type {
	case Pie, Doughnut, PolarArea:
	default:
		return Bundle{}, &UnsupportedChartFamilyError{Family: s.Type}
	}
	r := resolver(res.Headers)
	var (
		labels int
		err    error
	)
	if s.LabelField == "" {
		if labels, err = r.x(s.XField); err != nil {
			return Bundle{}, err
		}
	}
	y, err := r.firstY(s.YField)
	if err != nil {
		return Bundle{}, err
	}
	if s.LabelField != "" {
		if labels, err = r.index(s.LabelField, RoleLabels); err != nil {
			return Bundle{}, err
		}
	}

	data := numbers(res.Rows, y)
	colors := make([]string, len(data))
	for i := range data {
		colors[i] = Color(i)
	}
	return Bundle{
		Family: s.Type,
		Labels: project(res.Rows, labels),
		Radial: &RadialSeries{Data: data, BackgroundColor: colors},
	}, nil
}

func (s BubbleSpec) build(res TabularResult) (Bundle, error) {
	r := resolver(res.Headers)
	x, err := r.x(s.XField)
	if err != nil {
		return Bundle{}, err
	}
	names, ys, err := r.ys(s.YFields)
	if err != nil {
		return Bundle{}, err
	}
	radius := -1
	if s.RadiusField != "" {
		if radius, err = r.index(s.RadiusField, RoleRadius); err != nil {
			return Bundle{}, err
		}
	}

	series := make([]PointSeries, len(ys))
	for i, y := range ys {
		points := make([]Point, len(res.Rows))
		for j, row := range res.Rows {
			p := Point{X: Coerce(cell(row, x)), Y: Coerce(cell(row, y)), R: DefaultRadius}
			if radius >= 0 {
				p.R = CoerceOr(cell(row, radius), DefaultRadius)
			}
			points[j] = p
		}
		series[i] = PointSeries{Label: names[i], Data: points, BackgroundColor: Color(i)}
	}
	return Bundle{Family: Bubble, Points: series, Options: s.Axes.options()}, nil
}

func (s ScatterSpec) build(res TabularResult) (Bundle, error) {
	r := resolver(res.Headers)
	x, err := r.x(s.XField)
	if err != nil {
		return Bundle{}, err
	}
	names, ys, err := r.ys(s.YFields)
	if err != nil {
		return Bundle{}, err
	}

	series := make([]PointSeries, len(ys))
	for i, y := range ys {
		points := make([]Point, len(res.Rows))
		for j, row := range res.Rows {
			points[j] = Point{X: Coerce(cell(row, x)), Y: Coerce(cell(row, y))}
		}
		series[i] = PointSeries{Label: names[i], Data: points, BackgroundColor: Color(i)}
	}
	return Bundle{Family: Scatter, Points: series, Options: s.Axes.options()}, nil
}

func (TableSpec) build(res TabularResult) (Bundle, error) {
	headers := cloneStrings(res.Headers)
	if headers == nil {
		headers = []string{}
	}
	columns := make([]Column, len(headers))
	for i, h := range headers {
		columns[i] = Column{Field: h, Header: h}
	}
	rows := make([]Row, len(res.Rows))
	for i, row := range res.Rows {
		rows[i] = append(Row(nil), row...)
	}
	return Bundle{
		Family: TableType,
		Table:  &Table{Columns: columns, Headers: headers, Rows: rows},
	}, nil
}

func (a Axes) options() *Options {
	return &Options{
		Plugins: Plugins{Legend: Legend{Display: true}},
		Scales: Scales{
			X: Axis{Title: AxisTitle{Display: a.XLabel != "", Text: a.XLabel}},
			Y: Axis{Title: AxisTitle{Display: a.YLabel != "", Text: a.YLabel}},
		},
	}
}
