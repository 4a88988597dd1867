package geometry

import (
	"math"

	"github.com/theirongolddev/ringchart/internal/model"
)

// LayoutSingleRing places one arc per category around a single ring, in
// input order, starting at cfg.StartAngle with a gap after each arc.
//
// The stroke offset follows dash-offset semantics: the drawing primitive
// measures it as a negative rotation from angle 0, so subtracting the running
// fraction from 1 walks each arc forward while the StartAngle term rotates
// the first arc's origin into place.
func LayoutSingleRing(categories []model.Category, cfg model.ChartConfig) []model.ArcDescriptor {
	if len(categories) == 0 {
		return nil
	}

	radius := cfg.Center() - cfg.StrokeWidth/2
	circumference := 2 * math.Pi * radius

	raw, _ := weights(categories)
	alloc := AllocateGaps(Normalize(raw), cfg.GapDegrees)
	startTurn := cfg.StartAngle / 360

	arcs := make([]model.ArcDescriptor, len(categories))
	cumulative := 0.0
	for i, c := range categories {
		scaled := alloc.Scaled[i]
		arcs[i] = model.ArcDescriptor{
			Index:         i,
			Label:         c.Label,
			Value:         raw[i],
			Fraction:      scaled,
			Radius:        radius,
			Color:         colorOf(c, cfg, i),
			StrokeLength:  scaled * circumference,
			Circumference: circumference,
			StrokeOffset:  circumference*(1-cumulative) + startTurn*circumference,
			StartAngle:    cfg.StartAngle + cumulative*360,
			SweepAngle:    scaled * 360,
		}
		cumulative += scaled + alloc.GapFraction
	}
	return arcs
}

// ComputeDonutLayout returns the arcs plus the background ring they sit on.
// An empty category list yields the background ring only.
func ComputeDonutLayout(categories []model.Category, cfg model.ChartConfig) model.DonutLayout {
	_, total := weights(categories)

	return model.DonutLayout{
		Size:        cfg.Size,
		Center:      cfg.Center(),
		StrokeWidth: cfg.StrokeWidth,
		Background: model.BackgroundRing{
			Radius:      cfg.Center() - cfg.StrokeWidth/2,
			StrokeWidth: cfg.StrokeWidth,
			Color:       cfg.Background(),
		},
		Arcs:       LayoutSingleRing(categories, cfg),
		Total:      total,
		ShowLabels: cfg.ShowLabels,
	}
}

func colorOf(c model.Category, cfg model.ChartConfig, i int) string {
	if c.Color != "" {
		return c.Color
	}
	return cfg.ColorFor(i)
}
