// Package cmd implements the ringchart CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/store"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	flagSize        float64
	flagStrokeWidth float64
	flagGapDegrees  float64
	flagStartAngle  float64
	flagGap         float64
	flagQuiet       bool
	flagDB          string
)

var rootCmd = &cobra.Command{
	Use:   "ringchart",
	Short: "Donut and radial chart geometry",
	Long: `ringchart turns weighted categories into donut arcs and concentric
progress rings, and renders them as tables, JSON, SVG or braille art.`,
	Version:      version,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&flagSize, "size", model.DefaultSize, "Chart width and height")
	rootCmd.PersistentFlags().Float64Var(&flagStrokeWidth, "stroke-width", model.DefaultStrokeWidth, "Ring thickness")
	rootCmd.PersistentFlags().Float64Var(&flagGapDegrees, "gap-degrees", model.DefaultGapDegrees, "Degrees between donut arcs")
	rootCmd.PersistentFlags().Float64Var(&flagStartAngle, "start-angle", model.DefaultStartAngle, "Donut start angle in degrees (-90 is 12 o'clock)")
	rootCmd.PersistentFlags().Float64Var(&flagGap, "gap", model.DefaultRingGap, "Spacing between radial rings")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Dataset database path (default from config)")
}

// loadConfig reads config.toml. A broken file is reported once and the
// defaults are used so charts can still be drawn.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  %v, using defaults\n", err)
		}
		return config.DefaultConfig()
	}
	return cfg
}

// chartConfig merges explicitly set geometry flags over the config file.
func chartConfig(cmd *cobra.Command, cfg config.Config) model.ChartConfig {
	cc := cfg.ChartConfig()
	flags := cmd.Flags()
	if flags.Changed("size") {
		cc.Size = flagSize
	}
	if flags.Changed("stroke-width") {
		cc.StrokeWidth = flagStrokeWidth
	}
	if flags.Changed("gap-degrees") {
		cc.GapDegrees = flagGapDegrees
	}
	if flags.Changed("start-angle") {
		cc.StartAngle = flagStartAngle
	}
	if flags.Changed("gap") {
		cc.Gap = flagGap
	}
	return cc
}

func validateChart(cc model.ChartConfig) error {
	if cc.Size <= 0 {
		return fmt.Errorf("--size must be positive, got %v", cc.Size)
	}
	if cc.StrokeWidth < 0 {
		return fmt.Errorf("--stroke-width must not be negative, got %v", cc.StrokeWidth)
	}
	if cc.GapDegrees < 0 {
		return fmt.Errorf("--gap-degrees must not be negative, got %v", cc.GapDegrees)
	}
	if cc.Gap < 0 {
		return fmt.Errorf("--gap must not be negative, got %v", cc.Gap)
	}
	return nil
}

func storePath(cfg config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return config.StorePath(cfg)
}

func openStore(cfg config.Config) (*store.Store, error) {
	s, err := store.Open(storePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening dataset store: %w", err)
	}
	return s, nil
}

// progress prints a carriage-return progress line unless --quiet.
func progress(label string) func(current, total int) {
	return func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  %s %s", label, cli.RenderProgressBar(current, total, 20))
		}
	}
}
