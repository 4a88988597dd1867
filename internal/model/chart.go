// Package model defines the value types shared by the geometry engine,
// the dataset layer and the renderers.
package model

import "math"

// Default chart parameters.
const (
	DefaultSize            = 200.0
	DefaultStrokeWidth     = 20.0
	DefaultGapDegrees      = 4.0
	DefaultStartAngle      = -90.0 // 12 o'clock
	DefaultRingGap         = 2.0
	DefaultBackgroundColor = "#E5E7EB"
	DefaultNoDataLabel     = "No Data"
)

// DefaultPalette is used cyclically for categories without a color.
var DefaultPalette = []string{
	"#3AA99F", // teal
	"#4385BE", // blue
	"#DA702C", // orange
	"#879A39", // green
	"#CE5D97", // magenta
	"#D0A215", // yellow
	"#8B7EC8", // purple
	"#D14D41", // red
}

// Category is one weighted input element.
type Category struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
	// Percentage is nil unless the input carried a numeric percentage.
	Percentage *float64 `json:"percentage,omitempty"`
	Color      string   `json:"color,omitempty"`
}

// ChartConfig controls the geometry of both chart modes.
type ChartConfig struct {
	Size        float64 `json:"size"`
	StrokeWidth float64 `json:"stroke_width"`

	// Donut only.
	GapDegrees float64 `json:"gap_degrees"`
	StartAngle float64 `json:"start_angle"`

	// Radial only.
	Gap float64 `json:"gap"`

	Palette         []string `json:"palette,omitempty"`
	ShowLabels      bool     `json:"show_labels"`
	BackgroundColor string   `json:"background_color,omitempty"`
	NoDataLabel     string   `json:"no_data_label,omitempty"`
}

// DefaultChartConfig returns the default chart configuration.
func DefaultChartConfig() ChartConfig {
	palette := make([]string, len(DefaultPalette))
	copy(palette, DefaultPalette)
	return ChartConfig{
		Size:            DefaultSize,
		StrokeWidth:     DefaultStrokeWidth,
		GapDegrees:      DefaultGapDegrees,
		StartAngle:      DefaultStartAngle,
		Gap:             DefaultRingGap,
		Palette:         palette,
		ShowLabels:      true,
		BackgroundColor: DefaultBackgroundColor,
		NoDataLabel:     DefaultNoDataLabel,
	}
}

// Center returns the center coordinate on both axes.
func (c ChartConfig) Center() float64 {
	return c.Size / 2
}

// ColorFor returns the palette color for the category at index i.
// Falls back to DefaultPalette when the config carries none.
func (c ChartConfig) ColorFor(i int) string {
	palette := c.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// Background returns the configured background color or the default gray.
func (c ChartConfig) Background() string {
	if c.BackgroundColor == "" {
		return DefaultBackgroundColor
	}
	return c.BackgroundColor
}

// EmptyLabel returns the text shown when a radial chart has no data.
func (c ChartConfig) EmptyLabel() string {
	if c.NoDataLabel == "" {
		return DefaultNoDataLabel
	}
	return c.NoDataLabel
}

// ArcDescriptor is one colored arc of a donut ring.
type ArcDescriptor struct {
	Index         int     `json:"index"`
	Label         string  `json:"label,omitempty"`
	Value         float64 `json:"value"`
	Fraction      float64 `json:"fraction"`
	Radius        float64 `json:"radius"`
	Color         string  `json:"color"`
	StrokeLength  float64 `json:"stroke_length"`
	Circumference float64 `json:"circumference"`
	StrokeOffset  float64 `json:"stroke_offset"`
	// StartAngle and SweepAngle are degrees, clockwise on screen.
	StartAngle float64 `json:"start_angle"`
	SweepAngle float64 `json:"sweep_angle"`
}

// RingDescriptor is one progress ring of a radial chart.
type RingDescriptor struct {
	Index           int     `json:"index"`
	Label           string  `json:"label,omitempty"`
	Value           float64 `json:"value"`
	Radius          float64 `json:"radius"`
	Color           string  `json:"color"`
	Percentage      float64 `json:"percentage"`
	StrokeLength    float64 `json:"stroke_length"`
	Circumference   float64 `json:"circumference"`
	StrokeOffset    float64 `json:"stroke_offset"`
	Rotation        float64 `json:"rotation"`
	BackgroundColor string  `json:"background_color"`
}

// BackgroundRing is a full, uncolored ring drawn beneath the data.
type BackgroundRing struct {
	Radius      float64 `json:"radius"`
	StrokeWidth float64 `json:"stroke_width"`
	Color       string  `json:"color"`
}

// DonutLayout is everything a renderer needs to draw a donut chart.
type DonutLayout struct {
	Size        float64         `json:"size"`
	Center      float64         `json:"center"`
	StrokeWidth float64         `json:"stroke_width"`
	Background  BackgroundRing  `json:"background"`
	Arcs        []ArcDescriptor `json:"arcs"`
	Total       float64         `json:"total"`
	ShowLabels  bool            `json:"show_labels"`
}

// RadialLayout is everything a renderer needs to draw a radial chart.
type RadialLayout struct {
	Size        float64          `json:"size"`
	Center      float64          `json:"center"`
	StrokeWidth float64          `json:"stroke_width"`
	Rings       []RingDescriptor `json:"rings"`
	NoData      bool             `json:"no_data"`
	Placeholder *BackgroundRing  `json:"placeholder,omitempty"`
	NoDataLabel string           `json:"no_data_label,omitempty"`
	Total       float64          `json:"total"`
	ShowLabels  bool             `json:"show_labels"`
}

// PercentageSum returns the sum of all ring percentages. It can exceed 100
// when zero-value rings received the minimum-visibility override.
func (l RadialLayout) PercentageSum() float64 {
	sum := 0.0
	for _, r := range l.Rings {
		sum += r.Percentage
	}
	return sum
}

// CoveredFraction returns the share of the ring drawn by arcs, excluding gaps.
func (l DonutLayout) CoveredFraction() float64 {
	if l.Background.Radius <= 0 {
		return 0
	}
	c := 2 * math.Pi * l.Background.Radius
	sum := 0.0
	for _, a := range l.Arcs {
		sum += a.StrokeLength
	}
	return sum / c
}
