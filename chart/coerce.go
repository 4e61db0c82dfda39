package chart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Coerce converts a cell to the number plotted for it. Cells that do not
// parse as a finite number (nil, non-numeric strings, NaN) become 0.
func Coerce(v any) float64 {
	return CoerceOr(v, 0)
}

// CoerceOr converts a cell to a number, returning fallback when the cell is
// not numeric or its value is zero. A zero radius therefore becomes the
// default bubble size.
func CoerceOr(v any, fallback float64) float64 {
	f, ok := toFloat(v)
	if !ok || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	case *decimal.Decimal:
		if n == nil {
			return 0, false
		}
		return n.InexactFloat64(), true
	case json.Number:
		return parseNumber(string(n))
	case string:
		return parseNumber(n)
	case []byte:
		return parseNumber(string(n))
	default:
		return 0, false
	}
}

// parseNumber accepts decimal and exponent notation with surrounding
// whitespace. A blank string is zero.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
