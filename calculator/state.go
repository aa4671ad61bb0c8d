package calculator

import "fmt"

type StateKind int

const (
	Superheated StateKind = iota
	SaturatedVapor
	Subcooled
	SaturatedLiquid
)

func (k StateKind) String() string {
	switch k {
	case Superheated:
		return "superheated"
	case SaturatedVapor:
		return "saturated vapor"
	case Subcooled:
		return "subcooled"
	case SaturatedLiquid:
		return "saturated liquid"
	default:
		return fmt.Sprintf("state(%d)", int(k))
	}
}

// State is a boundary state selected by comparing a boundary temperature with the saturation
// temperature. Temperature is only meaningful for Superheated and Subcooled.
type State struct {
	Kind        StateKind
	Temperature float64
}

func superheated(t float64) State { return State{Kind: Superheated, Temperature: t} }
func subcooled(t float64) State   { return State{Kind: Subcooled, Temperature: t} }

var (
	saturatedVapor  = State{Kind: SaturatedVapor}
	saturatedLiquid = State{Kind: SaturatedLiquid}
)

// 饱和态对应的干度
func (s State) quality() (float64, bool) {
	switch s.Kind {
	case SaturatedVapor:
		return 1, true
	case SaturatedLiquid:
		return 0, true
	}
	return 0, false
}

func (s State) String() string {
	if _, ok := s.quality(); ok {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%.2f K)", s.Kind, s.Temperature)
}
