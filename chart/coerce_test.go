package chart

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{name: "float", in: 2.5, want: 2.5},
		{name: "int", in: 7, want: 7},
		{name: "int64", in: int64(-3), want: -3},
		{name: "uint8", in: uint8(9), want: 9},
		{name: "float32", in: float32(1.5), want: 1.5},
		{name: "numeric string", in: "42", want: 42},
		{name: "padded string", in: "  3.25 ", want: 3.25},
		{name: "exponent", in: "1e3", want: 1000},
		{name: "empty string", in: "", want: 0},
		{name: "non numeric", in: "not_a_number", want: 0},
		{name: "nil", in: nil, want: 0},
		{name: "true", in: true, want: 1},
		{name: "false", in: false, want: 0},
		{name: "decimal", in: decimal.RequireFromString("12.75"), want: 12.75},
		{name: "json number", in: json.Number("8"), want: 8},
		{name: "bytes", in: []byte("5"), want: 5},
		{name: "nan", in: math.NaN(), want: 0},
		{name: "nan string", in: "NaN", want: 0},
		{name: "infinity", in: math.Inf(1), want: 0},
		{name: "struct", in: struct{}{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestCoerceOr(t *testing.T) {
	assert.Equal(t, 5.0, CoerceOr(nil, 5))
	assert.Equal(t, 5.0, CoerceOr("x", 5))
	assert.Equal(t, 5.0, CoerceOr(0, 5))
	assert.Equal(t, 5.0, CoerceOr("0", 5))
	assert.Equal(t, 2.0, CoerceOr("2", 5))
	assert.Equal(t, -1.0, CoerceOr(-1, 5))
}
