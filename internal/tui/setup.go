package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the first-run form. Numbers are kept as
// text so the form inputs can bind to them directly.
type SetupValues struct {
	Theme       string
	StrokeWidth string
	GapDegrees  string
	ShowLabels  bool
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Theme:       cfg.Appearance.Theme,
		StrokeWidth: formatSetting(cfg.Chart.StrokeWidth),
		GapDegrees:  formatSetting(cfg.Chart.GapDegrees),
		ShowLabels:  cfg.Chart.ShowLabels,
	}
}

// NewSetupForm builds the first-run form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themes := make([]huh.Option[string], 0, len(theme.Names()))
	for _, name := range theme.Names() {
		themes = append(themes, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to ringchart").
				Description("Pick the defaults used for every donut and radial chart.\nRun `ringchart setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&vals.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Stroke width").
				Description("Ring thickness in chart units.").
				Value(&vals.StrokeWidth).
				Validate(positiveNumber),
			huh.NewInput().
				Title("Gap between donut arcs").
				Description("Degrees left empty between adjacent arcs.").
				Value(&vals.GapDegrees).
				Validate(nonNegativeNumber),
			huh.NewConfirm().
				Title("Show the total in the center?").
				Value(&vals.ShowLabels),
		),
	).WithShowHelp(true)
}

// ApplySetup copies validated form answers into cfg. Unparseable numbers
// leave the existing value alone.
func ApplySetup(cfg config.Config, vals SetupValues) config.Config {
	for _, name := range theme.Names() {
		if name == vals.Theme {
			cfg.Appearance.Theme = name
			break
		}
	}
	if v, err := parseSetting(vals.StrokeWidth); err == nil && v > 0 {
		cfg.Chart.StrokeWidth = v
	}
	if v, err := parseSetting(vals.GapDegrees); err == nil && v >= 0 {
		cfg.Chart.GapDegrees = v
	}
	cfg.Chart.ShowLabels = vals.ShowLabels
	return cfg
}

func parseSetting(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func positiveNumber(s string) error {
	v, err := parseSetting(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a number above 0")
	}
	return nil
}

func nonNegativeNumber(s string) error {
	v, err := parseSetting(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a number of at least 0")
	}
	return nil
}
