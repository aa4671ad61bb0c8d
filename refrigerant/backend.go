package refrigerant

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"heatload/model"
)

var ErrUnknownFluid = errors.New("unknown fluid")

// RangeError reports a query outside the tabulated range of a fluid.
type RangeError struct {
	Fluid    model.Fluid
	Quantity string
	Value    float64
	Min      float64
	Max      float64
	Unit     string
}

func (e *RangeError) Error() string {
	unit := ""
	if e.Unit != "" {
		unit = " " + e.Unit
	}
	return fmt.Sprintf("%s: %s %g%s outside valid range [%g, %g]%s",
		e.Fluid, e.Quantity, e.Value, unit, e.Min, e.Max, unit)
}

// Backend answers saturation and enthalpy queries from the embedded refrigerant tables.
// It is immutable after NewBackend returns and safe for concurrent use.
type Backend struct {
	fluids map[model.Fluid]*Refrigerant
}

func NewBackend() (*Backend, error) {
	fluids, err := loadTables()
	if err != nil {
		return nil, fmt.Errorf("load refrigerant tables: %w", err)
	}
	return &Backend{fluids: fluids}, nil
}

func MustNewBackend() *Backend {
	b, err := NewBackend()
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Backend) Fluids() []model.Fluid {
	res := make([]model.Fluid, 0, len(b.fluids))
	for name := range b.fluids {
		res = append(res, name)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func (b *Backend) Lookup(fluid model.Fluid) (*Refrigerant, error) {
	r, ok := b.fluids[fluid]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFluid, fluid)
	}
	return r, nil
}

// SaturationTemperature returns the saturation temperature at pressure for the given vapor
// quality. Quality 0 is the bubble point, 1 the dew point; blends interpolate across the glide.
func (b *Backend) SaturationTemperature(fluid model.Fluid, pressure, quality float64) (float64, error) {
	r, err := b.Lookup(fluid)
	if err != nil {
		return 0, err
	}
	if err := r.checkPressure(pressure); err != nil {
		return 0, err
	}
	if err := r.checkQuality(quality); err != nil {
		return 0, err
	}
	tb, td := r.BubbleTemperature(pressure), r.DewTemperature(pressure)
	return tb + quality*(td-tb), nil
}

// EnthalpyPQ returns the two-phase specific enthalpy at pressure and quality.
func (b *Backend) EnthalpyPQ(fluid model.Fluid, pressure, quality float64) (float64, error) {
	r, err := b.Lookup(fluid)
	if err != nil {
		return 0, err
	}
	if err := r.checkPressure(pressure); err != nil {
		return 0, err
	}
	if err := r.checkQuality(quality); err != nil {
		return 0, err
	}
	hl, hv := r.saturatedEnthalpies(pressure)
	return hl + quality*(hv-hl), nil
}

// EnthalpyPT returns the specific enthalpy at pressure and temperature.
// At or below the bubble point the liquid is treated as incompressible (h = h_f(T)); at or above
// the dew point the vapor uses the saturated cp. Temperatures inside a blend's glide are
// interpolated linearly between the saturated states.
func (b *Backend) EnthalpyPT(fluid model.Fluid, pressure, temperature float64) (float64, error) {
	r, err := b.Lookup(fluid)
	if err != nil {
		return 0, err
	}
	if err := r.checkPressure(pressure); err != nil {
		return 0, err
	}
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return 0, &RangeError{Fluid: r.Name, Quantity: "temperature", Value: temperature, Unit: "K"}
	}
	tb, td := r.BubbleTemperature(pressure), r.DewTemperature(pressure)
	switch {
	case temperature <= tb:
		if temperature < r.MinLiquidTemperature {
			return 0, &RangeError{
				Fluid:    r.Name,
				Quantity: "liquid temperature",
				Value:    temperature,
				Min:      r.MinLiquidTemperature,
				Max:      tb,
				Unit:     "K",
			}
		}
		return r.Parameter.Temp2Enthalpy(temperature), nil
	case temperature >= td:
		superheat := temperature - td
		if superheat > r.MaxSuperheat {
			return 0, &RangeError{
				Fluid:    r.Name,
				Quantity: "vapor temperature",
				Value:    temperature,
				Min:      td,
				Max:      td + r.MaxSuperheat,
				Unit:     "K",
			}
		}
		_, hv := r.saturatedEnthalpies(pressure)
		cp := r.Parameter.CpVapor.Predict(math.Log(pressure))
		return hv + cp*superheat, nil
	default:
		hl, hv := r.saturatedEnthalpies(pressure)
		frac := (temperature - tb) / (td - tb)
		return hl + frac*(hv-hl), nil
	}
}
