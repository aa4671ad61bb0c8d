package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// 制冷剂
type Fluid string

const (
	R134a Fluid = "R134a"
	R407C Fluid = "R407C"
)

var SupportedFluids = []Fluid{R134a, R407C}

// 换热过程方向
type Direction int

const (
	Evaporation Direction = iota
	Condensation
)

func (d Direction) String() string {
	switch d {
	case Evaporation:
		return "evaporation"
	case Condensation:
		return "condensation"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func (d Direction) Valid() bool {
	return d == Evaporation || d == Condensation
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "evaporation", "evaporator", "evap":
		return Evaporation, nil
	case "condensation", "condenser", "cond":
		return Condensation, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ProcessSpec 计算输入，全部为国际单位
// Pressure: Pa, 温度: K, MassFlowRate: kg/s
type ProcessSpec struct {
	Fluid             Fluid     `json:"fluid"`
	Pressure          float64   `json:"pressure"`
	InletTemperature  float64   `json:"inlet_temperature"`
	OutletTemperature float64   `json:"outlet_temperature"`
	MassFlowRate      float64   `json:"mass_flow_rate"`
	Direction         Direction `json:"direction"`
}

// 分项热负荷，单位 kW
type Component struct {
	Label string  `json:"label"`
	Power float64 `json:"power"`
}

const (
	LabelSensible  = "sensible"
	LabelLatent    = "latent"
	LabelSuperheat = "superheat"
	LabelSubcool   = "subcool"
	LabelTotal     = "total"
)

// HeatLoadBreakdown 计算结果
type HeatLoadBreakdown struct {
	Direction      Direction `json:"direction"`
	Sensible       float64   `json:"sensible"`
	Latent         float64   `json:"latent"`
	Secondary      float64   `json:"secondary"`
	SecondaryLabel string    `json:"secondary_label"`
	Total          float64   `json:"total"`
}

func (b HeatLoadBreakdown) Components() []Component {
	return []Component{
		{Label: LabelSensible, Power: b.Sensible},
		{Label: LabelLatent, Power: b.Latent},
		{Label: b.SecondaryLabel, Power: b.Secondary},
	}
}

func (b HeatLoadBreakdown) AsMap() map[string]float64 {
	m := make(map[string]float64, 4)
	for _, c := range b.Components() {
		m[c.Label] = c.Power
	}
	m[LabelTotal] = b.Total
	return m
}

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
