// Package config holds the ambient, environment-driven settings for the
// command-line entry point — logging verbosity and default I/O paths — and
// the YAML defaults document written by "transitcat config init". Config
// itself has nothing to do with the per-document render_settings/
// routing_settings, which travel with each request document; Defaults only
// seeds those sections when the --settings flag names a defaults file.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide ambient configuration, bound from environment
// variables. A .env file in the working directory is loaded first, if
// present, so local development doesn't need exported shell variables.
type Config struct {
	LogLevel   string `env:"TRANSITCAT_LOG_LEVEL" envDefault:"info"`
	InputPath  string `env:"TRANSITCAT_INPUT_PATH" envDefault:"-"`
	OutputPath string `env:"TRANSITCAT_OUTPUT_PATH" envDefault:"-"`
}

// Load reads Config from the environment, having first loaded a .env file
// if one exists. A missing .env file is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config: loading .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}

// Defaults is the shape written by "transitcat config init": a starter
// render_settings/routing_settings pair a user can copy into a request
// document's top level.
type Defaults struct {
	RenderSettings  RenderDefaults  `yaml:"render_settings"`
	RoutingSettings RoutingDefaults `yaml:"routing_settings"`
}

type RenderDefaults struct {
	Width             float64   `yaml:"width"`
	Height            float64   `yaml:"height"`
	Padding           float64   `yaml:"padding"`
	LineWidth         float64   `yaml:"line_width"`
	StopRadius        float64   `yaml:"stop_radius"`
	BusLabelFontSize  int       `yaml:"bus_label_font_size"`
	BusLabelOffset    []float64 `yaml:"bus_label_offset"`
	StopLabelFontSize int       `yaml:"stop_label_font_size"`
	StopLabelOffset   []float64 `yaml:"stop_label_offset"`
	UnderlayerColor   []int     `yaml:"underlayer_color"`
	UnderlayerWidth   float64   `yaml:"underlayer_width"`
	ColorPalette      []string  `yaml:"color_palette"`
}

type RoutingDefaults struct {
	BusVelocity float64 `yaml:"bus_velocity"`
	BusWaitTime int     `yaml:"bus_wait_time"`
}

// DefaultSettings returns the values used to seed a freshly generated
// config file.
func DefaultSettings() Defaults {
	return Defaults{
		RenderSettings: RenderDefaults{
			Width:             600,
			Height:            400,
			Padding:           30,
			LineWidth:         14,
			StopRadius:        5,
			BusLabelFontSize:  20,
			BusLabelOffset:    []float64{7, 15},
			StopLabelFontSize: 18,
			StopLabelOffset:   []float64{7, -3},
			UnderlayerColor:   []int{255, 255, 255},
			UnderlayerWidth:   3,
			ColorPalette:      []string{"green", "red", "blue"},
		},
		RoutingSettings: RoutingDefaults{
			BusVelocity: 40,
			BusWaitTime: 6,
		},
	}
}

// WriteDefaults writes the default settings document to path as YAML.
func WriteDefaults(path string) error {
	data, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("config: marshaling defaults: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
