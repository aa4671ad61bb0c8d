package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"heatload/calculator"
	"heatload/model"
	"heatload/refrigerant"
)

var calcFlags struct {
	fluid      string
	pressure   float64
	inlet      float64
	outlet     float64
	massFlow   float64
	direction  string
	latentMode string
}

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Evaluate one process and print the heat-load breakdown.",
	Long: "Evaluate one process. Flags left unset take the [form] defaults of the config file. " +
		"Pressure is in bar abs and temperatures in °C.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		in := formFromFlags(cmd, cfg.Form)
		if err := cfg.CheckForm(in); err != nil {
			return err
		}

		mode := cfg.LatentMode
		if cmd.Flags().Changed("latent-mode") {
			if mode, err = calculator.ParseLatentMode(calcFlags.latentMode); err != nil {
				return err
			}
		}

		backend, err := refrigerant.NewBackend()
		if err != nil {
			return err
		}
		b, err := evaluateForm(calculator.NewCycleHeatLoadCalculator(backend, calculator.WithLatentMode(mode)), in)
		if err != nil {
			return fmt.Errorf("calculation error: %w", err)
		}
		printBreakdown(cmd.OutOrStdout(), b)
		return nil
	},
}

func init() {
	f := calcCmd.Flags()
	f.StringVar(&calcFlags.fluid, "fluid", "", "refrigerant (R134a, R407C)")
	f.Float64Var(&calcFlags.pressure, "pressure-bar", 0, "evaporating/condensing pressure, bar abs")
	f.Float64Var(&calcFlags.inlet, "inlet-c", 0, "inlet temperature, °C")
	f.Float64Var(&calcFlags.outlet, "outlet-c", 0, "outlet temperature, °C")
	f.Float64Var(&calcFlags.massFlow, "mass-flow", 0, "mass flow rate, kg/s")
	f.StringVar(&calcFlags.direction, "direction", "", "evaporation or condensation")
	f.StringVar(&calcFlags.latentMode, "latent-mode", "", "observed or physical")
	rootCmd.AddCommand(calcCmd)
}

func formFromFlags(cmd *cobra.Command, in model.FormInput) model.FormInput {
	flags := cmd.Flags()
	if flags.Changed("fluid") {
		in.Fluid = model.Fluid(calcFlags.fluid)
	}
	if flags.Changed("pressure-bar") {
		in.PressureBar = calcFlags.pressure
	}
	if flags.Changed("inlet-c") {
		in.InletTemperatureC = calcFlags.inlet
	}
	if flags.Changed("outlet-c") {
		in.OutletTemperatureC = calcFlags.outlet
	}
	if flags.Changed("mass-flow") {
		in.MassFlowRate = calcFlags.massFlow
	}
	if flags.Changed("direction") {
		in.Direction = calcFlags.direction
	}
	return in
}

func evaluateForm(c calculator.Calculator, in model.FormInput) (model.HeatLoadBreakdown, error) {
	spec, err := in.ToSpec()
	if err != nil {
		return model.HeatLoadBreakdown{}, err
	}
	return c.Evaluate(spec)
}

var evaporationTitles = map[string]string{
	model.LabelSensible:  "Sensible heating",
	model.LabelLatent:    "Latent evaporation",
	model.LabelSuperheat: "Superheating",
	model.LabelTotal:     "Total heat added",
}

var condensationTitles = map[string]string{
	model.LabelSensible: "Desuperheating",
	model.LabelLatent:   "Latent condensation",
	model.LabelSubcool:  "Subcooling",
	model.LabelTotal:    "Total heat removed",
}

func printBreakdown(w io.Writer, b model.HeatLoadBreakdown) {
	titles := evaporationTitles
	if b.Direction == model.Condensation {
		titles = condensationTitles
	}
	for _, c := range b.Components() {
		fmt.Fprintf(w, "%s: %.2f kW\n", titles[c.Label], c.Power)
	}
	fmt.Fprintf(w, "%s: %.2f kW\n", titles[model.LabelTotal], b.Total)
}
