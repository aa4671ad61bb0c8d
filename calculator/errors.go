package calculator

import (
	"fmt"

	"heatload/model"
)

// InvalidSpecError is returned before any property lookup when a ProcessSpec is malformed.
type InvalidSpecError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid process spec: %s = %g: %s", e.Field, e.Value, e.Reason)
}

// PropertyLookupError wraps a backend failure together with the query that caused it.
type PropertyLookupError struct {
	Query    string
	Fluid    model.Fluid
	Pressure float64
	Input    string // "quality" 或 "temperature"
	Value    float64
	Err      error
}

func (e *PropertyLookupError) Error() string {
	return fmt.Sprintf("property lookup %s(fluid=%s, pressure=%g Pa, %s=%g) failed: %v",
		e.Query, e.Fluid, e.Pressure, e.Input, e.Value, e.Err)
}

func (e *PropertyLookupError) Unwrap() error {
	return e.Err
}
