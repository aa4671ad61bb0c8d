package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"heatload/calculator"
	"heatload/model"
)

const (
	DefaultPath = "conf/config.ini"
	EnvPath     = "HEATLOAD_CONFIG"
)

type Config struct {
	Addr string

	LogLevel  string
	LogFormat string

	LatentMode calculator.LatentMode

	Form           model.FormInput
	MinPressureBar float64
	MaxPressureBar float64
}

// ResolvePath 命令行参数 > 环境变量 > 默认路径
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the ini file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Warn("配置文件不存在，使用默认配置")
	}
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) (*Config, error) {
	defaults := model.DefaultFormInput()
	form := file.Section("form")
	calc := file.Section("calculator")

	latentMode, err := calculator.ParseLatentMode(calc.Key("latent_mode").MustString("observed"))
	if err != nil {
		return nil, fmt.Errorf("calculator.latent_mode: %w", err)
	}

	cfg := &Config{
		Addr:       file.Section("server").Key("addr").MustString(":9000"),
		LogLevel:   file.Section("log").Key("level").MustString("info"),
		LogFormat:  file.Section("log").Key("format").MustString("text"),
		LatentMode: latentMode,
		Form: model.FormInput{
			Fluid:              model.Fluid(form.Key("fluid").MustString(string(defaults.Fluid))),
			PressureBar:        form.Key("pressure_bar").MustFloat64(defaults.PressureBar),
			InletTemperatureC:  form.Key("inlet_temperature_c").MustFloat64(defaults.InletTemperatureC),
			OutletTemperatureC: form.Key("outlet_temperature_c").MustFloat64(defaults.OutletTemperatureC),
			MassFlowRate:       form.Key("mass_flow_rate").MustFloat64(defaults.MassFlowRate),
			Direction:          form.Key("direction").MustString(defaults.Direction),
		},
		MinPressureBar: form.Key("min_pressure_bar").MustFloat64(1.0),
		MaxPressureBar: form.Key("max_pressure_bar").MustFloat64(35.0),
	}
	if cfg.MinPressureBar <= 0 || cfg.MaxPressureBar <= cfg.MinPressureBar {
		return nil, fmt.Errorf("form pressure bounds [%g, %g] bar are invalid", cfg.MinPressureBar, cfg.MaxPressureBar)
	}
	return cfg, nil
}

// CheckForm 表单输入范围校验
func (c *Config) CheckForm(in model.FormInput) error {
	if in.PressureBar < c.MinPressureBar || in.PressureBar > c.MaxPressureBar {
		return fmt.Errorf("pressure %.2f bar outside form range [%.1f, %.1f] bar", in.PressureBar, c.MinPressureBar, c.MaxPressureBar)
	}
	return nil
}

// SetupLogger 根据配置设置日志级别和格式
func (c *Config) SetupLogger() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	log.SetLevel(level)
	switch c.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log.format: unknown format %q", c.LogFormat)
	}
	return nil
}
