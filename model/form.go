package model

const (
	barToPascal     = 1e5
	celsiusToKelvin = 273.15
)

// FormInput 表单输入，压力单位 bar(绝压)，温度单位 ℃
type FormInput struct {
	Fluid              Fluid   `json:"fluid"`
	PressureBar        float64 `json:"pressure_bar"`
	InletTemperatureC  float64 `json:"inlet_temperature_c"`
	OutletTemperatureC float64 `json:"outlet_temperature_c"`
	MassFlowRate       float64 `json:"mass_flow_rate"`
	Direction          string  `json:"direction"`
}

func DefaultFormInput() FormInput {
	return FormInput{
		Fluid:              R134a,
		PressureBar:        10.0,
		InletTemperatureC:  5.0,
		OutletTemperatureC: 11.0,
		MassFlowRate:       0.599,
		Direction:          Evaporation.String(),
	}
}

func BarToPascal(bar float64) float64 {
	return bar * barToPascal
}

func CelsiusToKelvin(c float64) float64 {
	return c + celsiusToKelvin
}

func KelvinToCelsius(k float64) float64 {
	return k - celsiusToKelvin
}

// ToSpec 转换为国际单位
func (f FormInput) ToSpec() (ProcessSpec, error) {
	direction, err := ParseDirection(f.Direction)
	if err != nil {
		return ProcessSpec{}, err
	}
	return ProcessSpec{
		Fluid:             f.Fluid,
		Pressure:          BarToPascal(f.PressureBar),
		InletTemperature:  CelsiusToKelvin(f.InletTemperatureC),
		OutletTemperature: CelsiusToKelvin(f.OutletTemperatureC),
		MassFlowRate:      f.MassFlowRate,
		Direction:         direction,
	}, nil
}
