package calculator

import (
	"math"

	log "github.com/sirupsen/logrus"

	"heatload/model"
)

// PropertyBackend resolves thermodynamic states of a refrigerant. Inputs and outputs are SI:
// Pa, K, J/kg. Implementations must be safe for concurrent use.
type PropertyBackend interface {
	SaturationTemperature(fluid model.Fluid, pressure, quality float64) (float64, error)
	EnthalpyPT(fluid model.Fluid, pressure, temperature float64) (float64, error)
	EnthalpyPQ(fluid model.Fluid, pressure, quality float64) (float64, error)
}

// calculator 的接口定义
type Calculator interface {
	Evaluate(spec model.ProcessSpec) (model.HeatLoadBreakdown, error)
}

// CycleHeatLoadCalculator splits the enthalpy change of an evaporation or condensation process
// into sensible, latent and superheat/subcool powers.
type CycleHeatLoadCalculator struct {
	backend    PropertyBackend
	latentMode LatentMode
	logger     *log.Entry
}

type Option func(c *CycleHeatLoadCalculator)

func WithLatentMode(mode LatentMode) Option {
	return func(c *CycleHeatLoadCalculator) {
		c.latentMode = mode
	}
}

func WithLogger(logger *log.Entry) Option {
	return func(c *CycleHeatLoadCalculator) {
		c.logger = logger
	}
}

func NewCycleHeatLoadCalculator(backend PropertyBackend, opts ...Option) *CycleHeatLoadCalculator {
	c := &CycleHeatLoadCalculator{
		backend: backend,
		logger:  log.WithField("component", "calculator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CycleHeatLoadCalculator) LatentMode() LatentMode {
	return c.latentMode
}

// Evaluate computes the heat-load breakdown of spec. It fails with *InvalidSpecError before any
// backend call, or with *PropertyLookupError on the first state the backend cannot resolve.
func (c *CycleHeatLoadCalculator) Evaluate(spec model.ProcessSpec) (model.HeatLoadBreakdown, error) {
	if err := validate(spec); err != nil {
		return model.HeatLoadBreakdown{}, err
	}

	p := planFor(spec.Direction, c.latentMode)
	s := newSession(c.backend, spec)

	tVapor, err := s.saturationTemperature(p.vaporRef)
	if err != nil {
		return model.HeatLoadBreakdown{}, err
	}
	var h enthalpies
	vapor := p.vapor(spec, tVapor)
	if h.h1, err = s.enthalpy(vapor); err != nil {
		return model.HeatLoadBreakdown{}, err
	}
	if h.h2, err = s.saturatedEnthalpy(p.h2); err != nil {
		return model.HeatLoadBreakdown{}, err
	}
	if h.h3, err = s.saturatedEnthalpy(p.h3); err != nil {
		return model.HeatLoadBreakdown{}, err
	}
	tLiquid, err := s.saturationTemperature(p.liquidRef)
	if err != nil {
		return model.HeatLoadBreakdown{}, err
	}
	liquid := p.liquid(spec, tLiquid)
	if h.h4, err = s.enthalpy(liquid); err != nil {
		return model.HeatLoadBreakdown{}, err
	}

	qSensible, qLatent, qSecondary := p.deltas(h)
	b := model.HeatLoadBreakdown{
		Direction:      spec.Direction,
		Sensible:       power(spec.MassFlowRate, qSensible),
		Latent:         power(spec.MassFlowRate, qLatent),
		Secondary:      power(spec.MassFlowRate, qSecondary),
		SecondaryLabel: p.secondaryLabel,
	}
	b.Total = b.Sensible + b.Latent + b.Secondary

	c.logger.WithFields(log.Fields{
		"fluid":     spec.Fluid,
		"direction": spec.Direction,
		"tSat":      tVapor,
		"vapor":     vapor.String(),
		"liquid":    liquid.String(),
		"h1":        h.h1,
		"h2":        h.h2,
		"h3":        h.h3,
		"h4":        h.h4,
		"total":     b.Total,
	}).Debug("热负荷计算完成")
	return b, nil
}

// 比焓差 J/kg -> 功率 kW
func power(massFlowRate, dh float64) float64 {
	return massFlowRate * dh / 1000
}

func validate(spec model.ProcessSpec) error {
	if !spec.Direction.Valid() {
		return &InvalidSpecError{Field: "direction", Value: float64(spec.Direction), Reason: "must be evaporation or condensation"}
	}
	if !(spec.Pressure > 0) || math.IsInf(spec.Pressure, 0) {
		return &InvalidSpecError{Field: "pressure", Value: spec.Pressure, Reason: "must be a positive finite value"}
	}
	if !(spec.MassFlowRate >= 0) || math.IsInf(spec.MassFlowRate, 0) {
		return &InvalidSpecError{Field: "mass_flow_rate", Value: spec.MassFlowRate, Reason: "must be a non-negative finite value"}
	}
	if !(spec.InletTemperature > 0) || math.IsInf(spec.InletTemperature, 0) {
		return &InvalidSpecError{Field: "inlet_temperature", Value: spec.InletTemperature, Reason: "must be a positive finite absolute temperature"}
	}
	if !(spec.OutletTemperature > 0) || math.IsInf(spec.OutletTemperature, 0) {
		return &InvalidSpecError{Field: "outlet_temperature", Value: spec.OutletTemperature, Reason: "must be a positive finite absolute temperature"}
	}
	return nil
}
