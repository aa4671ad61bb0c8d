package calculator

import (
	"fmt"
	"strings"

	"heatload/model"
)

type LatentMode int

const (
	// LatentObserved reproduces the reference evaporator sheet, where h2 and h3 are both the
	// saturated-liquid enthalpy and the evaporation latent term is always zero.
	LatentObserved LatentMode = iota
	// LatentPhysical splits evaporation into liquid heating, vaporization and superheat.
	LatentPhysical
)

func (m LatentMode) String() string {
	switch m {
	case LatentObserved:
		return "observed"
	case LatentPhysical:
		return "physical"
	default:
		return fmt.Sprintf("latent_mode(%d)", int(m))
	}
}

func ParseLatentMode(s string) (LatentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "observed":
		return LatentObserved, nil
	case "physical":
		return LatentPhysical, nil
	default:
		return 0, fmt.Errorf("unknown latent mode %q", s)
	}
}

// h1..h4，单位 J/kg
type enthalpies struct {
	h1, h2, h3, h4 float64
}

// plan 描述一个换热方向的计算步骤
type plan struct {
	// 气侧、液侧边界比较所用的饱和温度对应的干度
	vaporRef  float64
	liquidRef float64

	vapor  func(spec model.ProcessSpec, tSat float64) State // h1
	h2, h3 float64                                          // 干度
	liquid func(spec model.ProcessSpec, tSat float64) State // h4

	deltas         func(h enthalpies) (sensible, latent, secondary float64)
	secondaryLabel string
}

var evaporationObserved = plan{
	vaporRef:  1,
	liquidRef: 1,
	vapor: func(spec model.ProcessSpec, tSat float64) State {
		if spec.OutletTemperature < tSat {
			return superheated(spec.OutletTemperature)
		}
		return saturatedVapor
	},
	h2: 0,
	h3: 0,
	liquid: func(spec model.ProcessSpec, tSat float64) State {
		if spec.InletTemperature > tSat {
			return subcooled(spec.InletTemperature)
		}
		return saturatedLiquid
	},
	deltas: func(h enthalpies) (float64, float64, float64) {
		return h.h2 - h.h1, h.h3 - h.h2, h.h4 - h.h3
	},
	secondaryLabel: model.LabelSuperheat,
}

var evaporationPhysical = plan{
	vaporRef:  1,
	liquidRef: 0,
	vapor: func(spec model.ProcessSpec, tSat float64) State {
		if spec.OutletTemperature > tSat {
			return superheated(spec.OutletTemperature)
		}
		return saturatedVapor
	},
	h2: 1,
	h3: 0,
	liquid: func(spec model.ProcessSpec, tSat float64) State {
		if spec.InletTemperature < tSat {
			return subcooled(spec.InletTemperature)
		}
		return saturatedLiquid
	},
	deltas: func(h enthalpies) (float64, float64, float64) {
		return h.h3 - h.h4, h.h2 - h.h3, h.h1 - h.h2
	},
	secondaryLabel: model.LabelSuperheat,
}

var condensation = plan{
	vaporRef:  0,
	liquidRef: 0,
	vapor: func(spec model.ProcessSpec, tSat float64) State {
		if spec.InletTemperature > tSat {
			return superheated(spec.InletTemperature)
		}
		return saturatedVapor
	},
	h2: 1,
	h3: 0,
	liquid: func(spec model.ProcessSpec, tSat float64) State {
		if spec.OutletTemperature < tSat {
			return subcooled(spec.OutletTemperature)
		}
		return saturatedLiquid
	},
	deltas: func(h enthalpies) (float64, float64, float64) {
		return h.h1 - h.h2, h.h2 - h.h3, h.h3 - h.h4
	},
	secondaryLabel: model.LabelSubcool,
}

func planFor(direction model.Direction, mode LatentMode) plan {
	if direction == model.Condensation {
		return condensation
	}
	if mode == LatentPhysical {
		return evaporationPhysical
	}
	return evaporationObserved
}
