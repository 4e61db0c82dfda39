package chart

import (
	"errors"
	"fmt"
)

// ErrUnknownField matches every *UnknownFieldError via errors.Is.
var ErrUnknownField = errors.New("unknown field")

// ErrUnsupportedChartFamily matches every *UnsupportedChartFamilyError via errors.Is.
var ErrUnsupportedChartFamily = errors.New("unsupported chart type")

// Field roles reported by UnknownFieldError.
const (
	RoleX      = "x"
	RoleY      = "y"
	RoleRadius = "r"
	RoleLabels = "labels"
)

// UnknownFieldError reports a configured field name that is not one of the
// result headers. Field is empty when a role needed a column and none was
// configured or available.
type UnknownFieldError struct {
	Field string
	Role  string
}

func (e *UnknownFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("no %s field available in result", e.Role)
	}
	return fmt.Sprintf("%s field %q not found in headers", e.Role, e.Field)
}

func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}

// UnsupportedChartFamilyError reports a chart type outside the supported set.
type UnsupportedChartFamilyError struct {
	Family Family
}

func (e *UnsupportedChartFamilyError) Error() string {
	return fmt.Sprintf("unsupported chart type %q", string(e.Family))
}

func (e *UnsupportedChartFamilyError) Unwrap() error {
	return ErrUnsupportedChartFamily
}
