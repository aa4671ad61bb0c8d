package calculator

import "heatload/model"

// session 单次计算内的物性查询，饱和态结果按干度缓存
type session struct {
	backend   PropertyBackend
	spec      model.ProcessSpec
	satTemp   map[float64]float64
	satEnthal map[float64]float64
}

func newSession(backend PropertyBackend, spec model.ProcessSpec) *session {
	return &session{
		backend:   backend,
		spec:      spec,
		satTemp:   make(map[float64]float64, 2),
		satEnthal: make(map[float64]float64, 2),
	}
}

func (s *session) saturationTemperature(quality float64) (float64, error) {
	if t, ok := s.satTemp[quality]; ok {
		return t, nil
	}
	t, err := s.backend.SaturationTemperature(s.spec.Fluid, s.spec.Pressure, quality)
	if err != nil {
		return 0, s.lookupError("saturation_temperature", "quality", quality, err)
	}
	s.satTemp[quality] = t
	return t, nil
}

func (s *session) saturatedEnthalpy(quality float64) (float64, error) {
	if h, ok := s.satEnthal[quality]; ok {
		return h, nil
	}
	h, err := s.backend.EnthalpyPQ(s.spec.Fluid, s.spec.Pressure, quality)
	if err != nil {
		return 0, s.lookupError("enthalpy", "quality", quality, err)
	}
	s.satEnthal[quality] = h
	return h, nil
}

func (s *session) enthalpy(state State) (float64, error) {
	if q, ok := state.quality(); ok {
		return s.saturatedEnthalpy(q)
	}
	h, err := s.backend.EnthalpyPT(s.spec.Fluid, s.spec.Pressure, state.Temperature)
	if err != nil {
		return 0, s.lookupError("enthalpy", "temperature", state.Temperature, err)
	}
	return h, nil
}

func (s *session) lookupError(query, input string, value float64, err error) error {
	return &PropertyLookupError{
		Query:    query,
		Fluid:    s.spec.Fluid,
		Pressure: s.spec.Pressure,
		Input:    input,
		Value:    value,
		Err:      err,
	}
}
