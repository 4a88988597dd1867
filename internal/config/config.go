// Package config loads and saves the ringchart TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/ringchart/internal/model"

	"github.com/BurntSushi/toml"
)

// Config holds all ringchart configuration.
type Config struct {
	Chart      ChartSection      `toml:"chart"`
	Appearance AppearanceSection `toml:"appearance"`
	Store      StoreSection      `toml:"store"`
	Server     ServerSection     `toml:"server"`
}

// ChartSection holds the geometry defaults applied to every chart.
type ChartSection struct {
	Size            float64  `toml:"size"`
	StrokeWidth     float64  `toml:"stroke_width"`
	GapDegrees      float64  `toml:"gap_degrees"`
	StartAngle      float64  `toml:"start_angle"`
	RingGap         float64  `toml:"ring_gap"`
	ShowLabels      bool     `toml:"show_labels"`
	BackgroundColor string   `toml:"background_color,omitempty"`
	NoDataLabel     string   `toml:"no_data_label,omitempty"`
	Palette         []string `toml:"palette,omitempty"`
}

// AppearanceSection holds theme settings.
type AppearanceSection struct {
	Theme string `toml:"theme"`
}

// StoreSection locates the dataset database.
type StoreSection struct {
	Path string `toml:"path,omitempty"`
}

// ServerSection configures `ringchart serve`.
type ServerSection struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	chart := model.DefaultChartConfig()
	return Config{
		Chart: ChartSection{
			Size:            chart.Size,
			StrokeWidth:     chart.StrokeWidth,
			GapDegrees:      chart.GapDegrees,
			StartAngle:      chart.StartAngle,
			RingGap:         chart.Gap,
			ShowLabels:      chart.ShowLabels,
			BackgroundColor: chart.BackgroundColor,
			NoDataLabel:     chart.NoDataLabel,
			Palette:         chart.Palette,
		},
		Appearance: AppearanceSection{
			Theme: "flexoki-dark",
		},
		Server: ServerSection{
			Addr: "127.0.0.1:8787",
		},
	}
}

// ChartConfig converts the chart section into engine parameters.
// Non-positive sizes fall back to the defaults.
func (c Config) ChartConfig() model.ChartConfig {
	cc := model.ChartConfig{
		Size:            c.Chart.Size,
		StrokeWidth:     c.Chart.StrokeWidth,
		GapDegrees:      c.Chart.GapDegrees,
		StartAngle:      c.Chart.StartAngle,
		Gap:             c.Chart.RingGap,
		Palette:         c.Chart.Palette,
		ShowLabels:      c.Chart.ShowLabels,
		BackgroundColor: c.Chart.BackgroundColor,
		NoDataLabel:     c.Chart.NoDataLabel,
	}
	if cc.Size <= 0 {
		cc.Size = model.DefaultSize
	}
	if cc.StrokeWidth <= 0 {
		cc.StrokeWidth = model.DefaultStrokeWidth
	}
	return cc
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ringchart")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ringchart")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// StorePath returns the dataset database path, defaulting to the config dir.
func StorePath(cfg Config) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}
	return filepath.Join(Dir(), "datasets.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
