package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heatload/model"
	"heatload/refrigerant"
)

const (
	fakeHLiquid = 200e3
	fakeHVapor  = 400e3
	fakeCpL     = 1500.0
	fakeCpV     = 1000.0
)

// fakeBackend 线性物性，记录调用次数
type fakeBackend struct {
	bubble, dew float64
	calls       int
	failAfter   int // >0 时第 failAfter 次调用返回错误
}

var errFake = errors.New("fake backend failure")

func (f *fakeBackend) call() error {
	f.calls++
	if f.failAfter > 0 && f.calls >= f.failAfter {
		return errFake
	}
	return nil
}

func (f *fakeBackend) SaturationTemperature(_ model.Fluid, _, quality float64) (float64, error) {
	if err := f.call(); err != nil {
		return 0, err
	}
	return f.bubble + quality*(f.dew-f.bubble), nil
}

func (f *fakeBackend) EnthalpyPT(_ model.Fluid, _, temperature float64) (float64, error) {
	if err := f.call(); err != nil {
		return 0, err
	}
	switch {
	case temperature <= f.bubble:
		return fakeHLiquid + fakeCpL*(temperature-f.bubble), nil
	case temperature >= f.dew:
		return fakeHVapor + fakeCpV*(temperature-f.dew), nil
	default:
		return fakeHLiquid + (temperature-f.bubble)/(f.dew-f.bubble)*(fakeHVapor-fakeHLiquid), nil
	}
}

func (f *fakeBackend) EnthalpyPQ(_ model.Fluid, _, quality float64) (float64, error) {
	if err := f.call(); err != nil {
		return 0, err
	}
	return fakeHLiquid + quality*(fakeHVapor-fakeHLiquid), nil
}

func evaporationSpec(outlet, inlet, mDot float64) model.ProcessSpec {
	return model.ProcessSpec{
		Fluid:             model.R134a,
		Pressure:          1e6,
		InletTemperature:  inlet,
		OutletTemperature: outlet,
		MassFlowRate:      mDot,
		Direction:         model.Evaporation,
	}
}

func condensationSpec(inlet, outlet, mDot float64) model.ProcessSpec {
	return model.ProcessSpec{
		Fluid:             model.R134a,
		Pressure:          2.352e6,
		InletTemperature:  inlet,
		OutletTemperature: outlet,
		MassFlowRate:      mDot,
		Direction:         model.Condensation,
	}
}

func assertSum(t *testing.T, b model.HeatLoadBreakdown) {
	t.Helper()
	sum := b.Sensible + b.Latent + b.Secondary
	assert.InDelta(t, sum, b.Total, 1e-6*math.Max(1, math.Abs(sum)))
}

func TestEvaluate_NegativeMassFlowRejectedBeforeLookup(t *testing.T) {
	backend := &fakeBackend{bubble: 280, dew: 280}
	c := NewCycleHeatLoadCalculator(backend)

	_, err := c.Evaluate(evaporationSpec(285, 275, -1))

	var invalid *InvalidSpecError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "mass_flow_rate", invalid.Field)
	assert.Equal(t, 0, backend.calls)
}

func TestEvaluate_InvalidSpec(t *testing.T) {
	cases := []struct {
		name  string
		spec  model.ProcessSpec
		field string
	}{
		{"zero pressure", model.ProcessSpec{Pressure: 0, InletTemperature: 280, OutletTemperature: 290}, "pressure"},
		{"negative pressure", model.ProcessSpec{Pressure: -5, InletTemperature: 280, OutletTemperature: 290}, "pressure"},
		{"nan pressure", model.ProcessSpec{Pressure: math.NaN(), InletTemperature: 280, OutletTemperature: 290}, "pressure"},
		{"nan flow", model.ProcessSpec{Pressure: 1e6, MassFlowRate: math.NaN(), InletTemperature: 280, OutletTemperature: 290}, "mass_flow_rate"},
		{"zero inlet", model.ProcessSpec{Pressure: 1e6, OutletTemperature: 290}, "inlet_temperature"},
		{"infinite outlet", model.ProcessSpec{Pressure: 1e6, InletTemperature: 280, OutletTemperature: math.Inf(1)}, "outlet_temperature"},
		{"bad direction", model.ProcessSpec{Pressure: 1e6, InletTemperature: 280, OutletTemperature: 290, Direction: 7}, "direction"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{bubble: 280, dew: 280}
			_, err := NewCycleHeatLoadCalculator(backend).Evaluate(tc.spec)

			var invalid *InvalidSpecError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
			assert.Equal(t, 0, backend.calls)
		})
	}
}

func TestEvaluate_ZeroMassFlowIsValid(t *testing.T) {
	b, err := NewCycleHeatLoadCalculator(&fakeBackend{bubble: 280, dew: 280}).Evaluate(evaporationSpec(275, 290, 0))
	require.NoError(t, err)
	assert.Zero(t, b.Total)
}

func TestEvaluate_EvaporationObserved(t *testing.T) {
	backend := &fakeBackend{bubble: 280, dew: 280}
	c := NewCycleHeatLoadCalculator(backend)

	b, err := c.Evaluate(evaporationSpec(275, 290, 2))
	require.NoError(t, err)

	// h1 = PT(275), h2 = h3 = h_f, h4 = PT(290)
	assert.InDelta(t, 15.0, b.Sensible, 1e-9)
	assert.Equal(t, 0.0, b.Latent)
	assert.InDelta(t, 420.0, b.Secondary, 1e-9)
	assert.InDelta(t, 435.0, b.Total, 1e-9)
	assert.Equal(t, model.LabelSuperheat, b.SecondaryLabel)
	assert.Equal(t, model.Evaporation, b.Direction)
	// 饱和温度、h1、h2(h3 复用)、h4
	assert.Equal(t, 4, backend.calls)
}

func TestEvaluate_EvaporationClampsToSaturation(t *testing.T) {
	backend := &fakeBackend{bubble: 280, dew: 280}
	c := NewCycleHeatLoadCalculator(backend)

	// outlet 不低于饱和温度 -> 饱和蒸气；inlet 不高于饱和温度 -> h4 = h3
	b, err := c.Evaluate(evaporationSpec(285, 270, 1))
	require.NoError(t, err)

	assert.InDelta(t, (fakeHLiquid-fakeHVapor)/1000, b.Sensible, 1e-9)
	assert.Equal(t, 0.0, b.Latent)
	assert.Equal(t, 0.0, b.Secondary)
	assert.Equal(t, 3, backend.calls)
}

func TestEvaluate_EvaporationInletAtSaturationGivesZeroSuperheat(t *testing.T) {
	backend := refrigerant.MustNewBackend()
	c := NewCycleHeatLoadCalculator(backend)

	tSat, err := backend.SaturationTemperature(model.R134a, 1e6, 1)
	require.NoError(t, err)

	b, err := c.Evaluate(evaporationSpec(284.15, tSat, 0.599))
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.Secondary)
}

func TestEvaluate_EvaporationLatentAlwaysZero(t *testing.T) {
	c := NewCycleHeatLoadCalculator(refrigerant.MustNewBackend())
	for _, fluid := range model.SupportedFluids {
		for _, p := range []float64{1.5e5, 5e5, 1e6, 2e6, 3e6} {
			for _, outlet := range []float64{250, 284.15, 300, 340} {
				for _, inlet := range []float64{250, 278.15, 320, 350} {
					spec := evaporationSpec(outlet, inlet, 0.599)
					spec.Fluid = fluid
					spec.Pressure = p
					b, err := c.Evaluate(spec)
					if err != nil {
						var lookup *PropertyLookupError
						require.ErrorAs(t, err, &lookup)
						continue
					}
					assert.Equal(t, 0.0, b.Latent, "fluid=%s p=%g outlet=%g inlet=%g", fluid, p, outlet, inlet)
					assertSum(t, b)
				}
			}
		}
	}
}

func TestEvaluate_Condensation(t *testing.T) {
	backend := &fakeBackend{bubble: 320, dew: 320}
	c := NewCycleHeatLoadCalculator(backend)

	b, err := c.Evaluate(condensationSpec(340, 300, 0.5))
	require.NoError(t, err)

	assert.InDelta(t, 10.0, b.Sensible, 1e-9)
	assert.InDelta(t, 100.0, b.Latent, 1e-9)
	assert.InDelta(t, 15.0, b.Secondary, 1e-9)
	assert.InDelta(t, 125.0, b.Total, 1e-9)
	assert.Equal(t, model.LabelSubcool, b.SecondaryLabel)
}

func TestEvaluate_CondensationClampsToSaturation(t *testing.T) {
	backend := &fakeBackend{bubble: 320, dew: 320}
	c := NewCycleHeatLoadCalculator(backend)

	b, err := c.Evaluate(condensationSpec(310, 330, 1))
	require.NoError(t, err)

	assert.Equal(t, 0.0, b.Sensible)
	assert.InDelta(t, (fakeHVapor-fakeHLiquid)/1000, b.Latent, 1e-9)
	assert.Equal(t, 0.0, b.Secondary)
}

func TestEvaluate_CondensationIgnoresLatentMode(t *testing.T) {
	spec := condensationSpec(340, 300, 0.5)
	observed, err := NewCycleHeatLoadCalculator(&fakeBackend{bubble: 320, dew: 320}).Evaluate(spec)
	require.NoError(t, err)
	physical, err := NewCycleHeatLoadCalculator(&fakeBackend{bubble: 320, dew: 320}, WithLatentMode(LatentPhysical)).Evaluate(spec)
	require.NoError(t, err)
	assert.Equal(t, observed, physical)
}

func TestEvaluate_EvaporationPhysical(t *testing.T) {
	backend := &fakeBackend{bubble: 275, dew: 280}
	c := NewCycleHeatLoadCalculator(backend, WithLatentMode(LatentPhysical))
	require.Equal(t, LatentPhysical, c.LatentMode())

	b, err := c.Evaluate(evaporationSpec(290, 270, 1))
	require.NoError(t, err)

	assert.InDelta(t, 7.5, b.Sensible, 1e-9)
	assert.InDelta(t, 200.0, b.Latent, 1e-9)
	assert.InDelta(t, 10.0, b.Secondary, 1e-9)
	assertSum(t, b)
	assert.Equal(t, 6, backend.calls)
}

func TestEvaluate_EvaporationPhysicalClamps(t *testing.T) {
	c := NewCycleHeatLoadCalculator(&fakeBackend{bubble: 275, dew: 280}, WithLatentMode(LatentPhysical))

	// 入口在泡点以上、出口在露点以下时两端都取饱和态
	b, err := c.Evaluate(evaporationSpec(278, 277, 1))
	require.NoError(t, err)

	assert.Equal(t, 0.0, b.Sensible)
	assert.InDelta(t, 200.0, b.Latent, 1e-9)
	assert.Equal(t, 0.0, b.Secondary)
}

func TestEvaluate_PhysicalLatentMatchesSaturationEnthalpies(t *testing.T) {
	backend := refrigerant.MustNewBackend()
	c := NewCycleHeatLoadCalculator(backend, WithLatentMode(LatentPhysical))

	spec := evaporationSpec(284.15, 278.15, 0.599)
	spec.Pressure = 3e5
	b, err := c.Evaluate(spec)
	require.NoError(t, err)

	hl, err := backend.EnthalpyPQ(model.R134a, spec.Pressure, 0)
	require.NoError(t, err)
	hv, err := backend.EnthalpyPQ(model.R134a, spec.Pressure, 1)
	require.NoError(t, err)
	assert.InDelta(t, spec.MassFlowRate*(hv-hl)/1000, b.Latent, 1e-9)
	assert.Greater(t, b.Latent, 0.0)
	assert.Greater(t, b.Secondary, 0.0)
}

func TestEvaluate_ScalesLinearlyWithMassFlow(t *testing.T) {
	c := NewCycleHeatLoadCalculator(refrigerant.MustNewBackend())
	specs := []model.ProcessSpec{
		evaporationSpec(284.15, 278.15, 0.599),
		condensationSpec(368.15, 325.85, 0.599),
	}
	for _, spec := range specs {
		base, err := c.Evaluate(spec)
		require.NoError(t, err)

		spec.MassFlowRate *= 3
		scaled, err := c.Evaluate(spec)
		require.NoError(t, err)

		assert.InDelta(t, 3*base.Sensible, scaled.Sensible, 1e-9)
		assert.InDelta(t, 3*base.Latent, scaled.Latent, 1e-9)
		assert.InDelta(t, 3*base.Secondary, scaled.Secondary, 1e-9)
		assert.InDelta(t, 3*base.Total, scaled.Total, 1e-9)
	}
}

func TestEvaluate_BoundaryScenarios(t *testing.T) {
	c := NewCycleHeatLoadCalculator(refrigerant.MustNewBackend())

	cases := []struct {
		name string
		spec model.ProcessSpec
	}{
		{"evaporation R134a 10 bar", evaporationSpec(284.15, 278.15, 0.599)},
		{"condensation R134a 23.52 bar", condensationSpec(368.15, 325.85, 0.599)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := c.Evaluate(tc.spec)
			require.NoError(t, err)

			m := b.AsMap()
			require.Len(t, m, 4)
			for label, v := range m {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s = %v", label, v)
			}
			assertSum(t, b)
		})
	}
}

func TestEvaluate_CondensationScenarioMagnitudes(t *testing.T) {
	b, err := NewCycleHeatLoadCalculator(refrigerant.MustNewBackend()).Evaluate(condensationSpec(368.15, 325.85, 0.599))
	require.NoError(t, err)

	assert.Greater(t, b.Sensible, 0.0)
	assert.Greater(t, b.Latent, 0.0)
	assert.Greater(t, b.Secondary, 0.0)
	assert.Greater(t, b.Latent, b.Sensible)
}

func TestEvaluate_PressureBelowRange(t *testing.T) {
	spec := evaporationSpec(284.15, 278.15, 0.599)
	spec.Pressure = 1e4

	_, err := NewCycleHeatLoadCalculator(refrigerant.MustNewBackend()).Evaluate(spec)

	var lookup *PropertyLookupError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, "saturation_temperature", lookup.Query)
	var rangeErr *refrigerant.RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "pressure", rangeErr.Quantity)
}

func TestEvaluate_UnknownFluid(t *testing.T) {
	spec := evaporationSpec(284.15, 278.15, 0.599)
	spec.Fluid = "R22"

	_, err := NewCycleHeatLoadCalculator(refrigerant.MustNewBackend()).Evaluate(spec)

	var lookup *PropertyLookupError
	require.ErrorAs(t, err, &lookup)
	assert.ErrorIs(t, err, refrigerant.ErrUnknownFluid)
	assert.Contains(t, err.Error(), "R22")
}

func TestEvaluate_NoPartialResultOnLateFailure(t *testing.T) {
	backend := &fakeBackend{bubble: 280, dew: 280, failAfter: 4}
	b, err := NewCycleHeatLoadCalculator(backend).Evaluate(evaporationSpec(275, 290, 1))

	var lookup *PropertyLookupError
	require.ErrorAs(t, err, &lookup)
	assert.ErrorIs(t, err, errFake)
	assert.Equal(t, "enthalpy", lookup.Query)
	assert.Equal(t, "temperature", lookup.Input)
	assert.Equal(t, 290.0, lookup.Value)
	assert.Equal(t, model.HeatLoadBreakdown{}, b)
}

func TestParseLatentMode(t *testing.T) {
	m, err := ParseLatentMode("Physical")
	require.NoError(t, err)
	assert.Equal(t, LatentPhysical, m)

	m, err = ParseLatentMode("")
	require.NoError(t, err)
	assert.Equal(t, LatentObserved, m)

	_, err = ParseLatentMode("corrected")
	assert.Error(t, err)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "saturated vapor", saturatedVapor.String())
	assert.Equal(t, "subcooled(278.15 K)", subcooled(278.15).String())
}
