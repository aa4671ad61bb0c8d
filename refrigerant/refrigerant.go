package refrigerant

import (
	"embed"
	"fmt"
	"math"
	"path"
	"sort"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/interp"
	"gopkg.in/yaml.v3"

	"heatload/model"
)

const (
	barToPascal  = 1e5
	kelvinOffset = 273.15
	kiloJoule    = 1000
)

//go:embed tables/*.yaml
var tableFS embed.FS

// 物性表中的一行：某一饱和压力下的泡点、露点及饱和焓
type Point struct {
	Pressure float64 `yaml:"pressure"` // bar
	Bubble   float64 `yaml:"bubble"`   // ℃
	Dew      float64 `yaml:"dew"`      // ℃
	HLiquid  float64 `yaml:"h_liquid"` // kJ/kg
	HVapor   float64 `yaml:"h_vapor"`  // kJ/kg
	CpVapor  float64 `yaml:"cp_vapor"` // kJ/(kg·K)
}

type table struct {
	Name                 model.Fluid `yaml:"name"`
	MaxSuperheat         float64     `yaml:"max_superheat"`
	MinLiquidTemperature float64     `yaml:"min_liquid_temperature"`
	Points               []Point     `yaml:"points"`
}

// Refrigerant holds the fitted saturation curves of one fluid. All accessors take and return SI
// units: Pa, K, J/kg.
type Refrigerant struct {
	Name                 model.Fluid
	MinPressure          float64 // Pa
	MaxPressure          float64 // Pa
	MaxSuperheat         float64 // K
	MinLiquidTemperature float64 // K
	Parameter            *Parameter
}

// 以 ln(P) 为自变量的饱和曲线
type Parameter struct {
	Bubble  interp.FritschButland
	Dew     interp.FritschButland
	HLiquid interp.FritschButland
	HVapor  interp.FritschButland
	CpVapor interp.FritschButland

	liquidByTemp interp.FritschButland
	// 通过温度获取过冷液体焓值，K -> J/kg
	Temp2Enthalpy func(temp float64) float64
}

func newRefrigerant(t table) (*Refrigerant, error) {
	if len(t.Points) < 3 {
		return nil, fmt.Errorf("%s: need at least 3 table points, got %d", t.Name, len(t.Points))
	}
	points := append([]Point(nil), t.Points...)
	sort.Slice(points, func(i, j int) bool {
		return points[i].Pressure < points[j].Pressure
	})

	n := len(points)
	lnP := make([]float64, n)
	bubble := make([]float64, n)
	dew := make([]float64, n)
	hl := make([]float64, n)
	hv := make([]float64, n)
	cp := make([]float64, n)
	for i, p := range points {
		lnP[i] = math.Log(p.Pressure * barToPascal)
		bubble[i] = p.Bubble + kelvinOffset
		dew[i] = p.Dew + kelvinOffset
		hl[i] = p.HLiquid * kiloJoule
		hv[i] = p.HVapor * kiloJoule
		cp[i] = p.CpVapor * kiloJoule
		if p.Dew < p.Bubble {
			return nil, fmt.Errorf("%s: dew point below bubble point at %.3f bar", t.Name, p.Pressure)
		}
	}

	parameter := &Parameter{}
	fits := []struct {
		name string
		f    *interp.FritschButland
		xs   []float64
		ys   []float64
	}{
		{"bubble", &parameter.Bubble, lnP, bubble},
		{"dew", &parameter.Dew, lnP, dew},
		{"h_liquid", &parameter.HLiquid, lnP, hl},
		{"h_vapor", &parameter.HVapor, lnP, hv},
		{"cp_vapor", &parameter.CpVapor, lnP, cp},
		{"liquid_by_temperature", &parameter.liquidByTemp, bubble, hl},
	}
	for _, fit := range fits {
		if err := fit.f.Fit(fit.xs, fit.ys); err != nil {
			return nil, fmt.Errorf("%s: fit %s: %w", t.Name, fit.name, err)
		}
	}
	parameter.Temp2Enthalpy = func(temp float64) float64 {
		return parameter.liquidByTemp.Predict(temp)
	}

	r := &Refrigerant{
		Name:                 t.Name,
		MinPressure:          points[0].Pressure * barToPascal,
		MaxPressure:          points[n-1].Pressure * barToPascal,
		MaxSuperheat:         t.MaxSuperheat,
		MinLiquidTemperature: t.MinLiquidTemperature + kelvinOffset,
		Parameter:            parameter,
	}
	log.WithFields(log.Fields{
		"fluid":       r.Name,
		"points":      n,
		"minPressure": r.MinPressure,
		"maxPressure": r.MaxPressure,
	}).Debug("加载制冷剂物性表")
	return r, nil
}

func loadTables() (map[model.Fluid]*Refrigerant, error) {
	entries, err := tableFS.ReadDir("tables")
	if err != nil {
		return nil, err
	}
	fluids := make(map[model.Fluid]*Refrigerant, len(entries))
	for _, e := range entries {
		data, err := tableFS.ReadFile(path.Join("tables", e.Name()))
		if err != nil {
			return nil, err
		}
		var t table
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		r, err := newRefrigerant(t)
		if err != nil {
			return nil, err
		}
		fluids[r.Name] = r
	}
	return fluids, nil
}

func (r *Refrigerant) checkPressure(pressure float64) error {
	if math.IsNaN(pressure) || pressure < r.MinPressure || pressure > r.MaxPressure {
		return &RangeError{
			Fluid:    r.Name,
			Quantity: "pressure",
			Value:    pressure,
			Min:      r.MinPressure,
			Max:      r.MaxPressure,
			Unit:     "Pa",
		}
	}
	return nil
}

func (r *Refrigerant) checkQuality(quality float64) error {
	if math.IsNaN(quality) || quality < 0 || quality > 1 {
		return &RangeError{Fluid: r.Name, Quantity: "quality", Value: quality, Min: 0, Max: 1}
	}
	return nil
}

// 泡点温度，K
func (r *Refrigerant) BubbleTemperature(pressure float64) float64 {
	return r.Parameter.Bubble.Predict(math.Log(pressure))
}

// 露点温度，K
func (r *Refrigerant) DewTemperature(pressure float64) float64 {
	return r.Parameter.Dew.Predict(math.Log(pressure))
}

func (r *Refrigerant) saturatedEnthalpies(pressure float64) (hl, hv float64) {
	x := math.Log(pressure)
	return r.Parameter.HLiquid.Predict(x), r.Parameter.HVapor.Predict(x)
}
