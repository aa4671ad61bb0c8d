// Package cmd provides the command-line interface of the heat-load calculator.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"heatload/config"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "heatload",
	Short: "Refrigerant evaporator/condenser heat-load calculator.",
	Long: `heatload splits the heat load of an evaporation or condensation process into ` +
		`sensible, latent and superheat/subcool powers for R134a and R407C.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config.ini (default $"+config.EnvPath+" or "+config.DefaultPath+")")
}

// loadConfig 读取 .env 与配置文件并初始化日志
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("读取 .env 失败")
	}
	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return nil, err
	}
	if err := cfg.SetupLogger(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
