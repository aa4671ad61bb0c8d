package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"heatload/model"
	"heatload/refrigerant"
)

var fluidsCmd = &cobra.Command{
	Use:   "fluids",
	Short: "List supported refrigerants and their pressure range.",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := refrigerant.NewBackend()
		if err != nil {
			return err
		}
		for _, name := range backend.Fluids() {
			r, err := backend.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f - %.2f bar abs\tbubble %.1f °C at %.2f bar\n",
				r.Name,
				r.MinPressure/1e5, r.MaxPressure/1e5,
				model.KelvinToCelsius(r.BubbleTemperature(r.MinPressure)), r.MinPressure/1e5)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fluidsCmd)
}
