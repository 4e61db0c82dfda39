package chart

// resolver maps configured field names to column positions.
type resolver []string

func (r resolver) index(name, role string) (int, error) {
	for i, h := range r {
		if h == name {
			return i, nil
		}
	}
	return -1, &UnknownFieldError{Field: name, Role: role}
}

// x resolves the x field, defaulting to the first column.
func (r resolver) x(name string) (int, error) {
	if name != "" {
		return r.index(name, RoleX)
	}
	if len(r) == 0 {
		return -1, &UnknownFieldError{Role: RoleX}
	}
	return 0, nil
}

// ys resolves the y fields in order, defaulting to every column after the
// first.
func (r resolver) ys(names []string) ([]string, []int, error) {
	if len(names) == 0 {
		if len(r) < 2 {
			return nil, nil, nil
		}
		names = r[1:]
	}
	out := make([]string, len(names))
	idx := make([]int, len(names))
	for i, name := range names {
		j, err := r.index(name, RoleY)
		if err != nil {
			return nil, nil, err
		}
		out[i] = name
		idx[i] = j
	}
	return out, idx, nil
}

// firstY resolves the single value column of a radial chart.
func (r resolver) firstY(name string) (int, error) {
	if name != "" {
		return r.index(name, RoleY)
	}
	if len(r) < 2 {
		return -1, &UnknownFieldError{Role: RoleY}
	}
	return 1, nil
}

func cell(row Row, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func project(rows []Row, i int) []any {
	out := make([]any, len(rows))
	for j, row := range rows {
		out[j] = cell(row, i)
	}
	return out
}

func numbers(rows []Row, i int) []float64 {
	out := make([]float64, len(rows))
	for j, row := range rows {
		out[j] = Coerce(cell(row, i))
	}
	return out
}
