package cmd

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"heatload/calculator"
	"heatload/refrigerant"
	"heatload/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator form over websocket.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		backend, err := refrigerant.NewBackend()
		if err != nil {
			return err
		}
		c := calculator.NewCycleHeatLoadCalculator(backend, calculator.WithLatentMode(cfg.LatentMode))

		upgrader := websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}
		return server.NewServer(cfg, c, backend.Fluids(), upgrader).Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
