// Package config loads the dashboard configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/schema"
)

// DefaultSites are the launch sites offered by the site selector.
var DefaultSites = []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}

// Config is the full dashboard configuration.
type Config struct {
	Dataset Dataset  `yaml:"dataset"`
	Server  Server   `yaml:"server"`
	Sites   []string `yaml:"sites"`
	Slider  Slider   `yaml:"slider"`
	Charts  Charts   `yaml:"charts"`
	Log     Log      `yaml:"log"`
}

// Dataset locates the launch data.
type Dataset struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet,omitempty"`
	// Columns overrides header names per field, e.g. {launch_site: "Pad"}.
	Columns map[schema.Field]string `yaml:"columns,omitempty"`
}

// Server configures the HTTP/websocket front-end.
type Server struct {
	Listen          string        `yaml:"listen"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// Slider bounds the payload range control.
type Slider struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Charts tunes chart building and rendering.
type Charts struct {
	SiteOrder string `yaml:"siteOrder"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

// Log configures the zap backend.
type Log struct {
	Verbosity   int  `yaml:"verbosity"`
	Development bool `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dataset: Dataset{Path: "spacex_launch_dash.csv"},
		Server:  Server{Listen: ":8050", ShutdownTimeout: 5 * time.Second},
		Sites:   append([]string(nil), DefaultSites...),
		Slider:  Slider{Min: 0, Max: 10000, Step: 1000},
		Charts:  Charts{SiteOrder: engine.OrderFirstSeen, Width: 800, Height: 480},
		Log:     Log{Development: true},
	}
}

// Load reads a YAML file on top of Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset.path is required"))
	}
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is required"))
	}
	if c.Slider.Min > c.Slider.Max {
		errs = append(errs, fmt.Errorf("slider.min %g exceeds slider.max %g", c.Slider.Min, c.Slider.Max))
	}
	if c.Slider.Step <= 0 {
		errs = append(errs, fmt.Errorf("slider.step must be positive, got %g", c.Slider.Step))
	}
	switch c.Charts.SiteOrder {
	case engine.OrderFirstSeen, engine.OrderAlpha, engine.OrderRate:
	default:
		errs = append(errs, fmt.Errorf("charts.siteOrder %q: want %s, %s or %s", c.Charts.SiteOrder, engine.OrderFirstSeen, engine.OrderAlpha, engine.OrderRate))
	}
	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		errs = append(errs, fmt.Errorf("charts.width/height must be positive"))
	}
	for _, s := range c.Sites {
		if s == engine.AllSites {
			errs = append(errs, fmt.Errorf("sites: %q is reserved", engine.AllSites))
		}
	}
	return errors.Join(errs...)
}

// Columns returns the dataset column mapping with overrides applied.
func (c Config) Columns() schema.Columns {
	return schema.DefaultColumns().WithHeaders(c.Dataset.Columns)
}
