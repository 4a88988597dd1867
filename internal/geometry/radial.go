package geometry

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/theirongolddev/ringchart/internal/model"
)

const (
	// minEqualShare is the floor for rings of an all-empty chart.
	minEqualShare = 5.0
	// zeroValuePercent keeps a zero-value ring visible as a thin sliver.
	zeroValuePercent = 2.0
	// ringStartTurn is the quarter-turn offset every radial ring starts at.
	ringStartTurn = 0.25
	// ringRotation is applied uniformly to all radial rings.
	ringRotation = -90.0
)

var (
	// ErrMalformedCategory reports categories whose values cannot be resolved
	// to percentages, such as finite values whose total overflows.
	ErrMalformedCategory = errors.New("malformed category")

	// ErrLayoutFault wraps a panic recovered while building a radial layout.
	ErrLayoutFault = errors.New("radial layout fault")
)

// ResolvePercentages computes one ring percentage per category.
//
// The policy is picked by inspecting the input:
//   - every value and percentage is zero or absent: each ring gets an equal
//     share of max(5, 100/N)
//   - any category carries a percentage <= 100: all percentages pass through
//     unchanged, absent ones as 0
//
// A NaN or infinite percentage is treated as absent. Values whose total
// overflows report ErrMalformedCategory.
//   - otherwise: round(value/total*100), with zero-value categories forced
//     to 2 independently of the others, so the sum may exceed 100
func ResolvePercentages(categories []model.Category) ([]float64, error) {
	n := len(categories)
	if n == 0 {
		return nil, nil
	}

	precomputed := false
	empty := true
	for _, c := range categories {
		if p, ok := finitePercentage(c); ok {
			if p <= 100 {
				precomputed = true
			}
			if p != 0 {
				empty = false
			}
		}
		if SanitizeValue(c.Value) != 0 {
			empty = false
		}
	}

	out := make([]float64, n)

	switch {
	case empty:
		share := math.Max(minEqualShare, 100/float64(n))
		for i := range out {
			out[i] = share
		}

	case precomputed:
		for i, c := range categories {
			if p, ok := finitePercentage(c); ok {
				out[i] = p
			}
		}

	default:
		raw, total := weights(categories)
		if math.IsInf(total, 0) {
			return nil, fmt.Errorf("value total overflows: %w", ErrMalformedCategory)
		}
		for i, v := range raw {
			if v == 0 || total == 0 {
				out[i] = zeroValuePercent
				continue
			}
			out[i] = math.Round(v / total * 100)
		}
	}

	return out, nil
}

// LayoutConcentricRings assigns each ring a radius and a progress arc.
// The first category is the innermost ring and the last the outermost;
// ring i sits (N-i-1) ring pitches inside the outermost radius.
func LayoutConcentricRings(categories []model.Category, percentages []float64, cfg model.ChartConfig) []model.RingDescriptor {
	n := min(len(categories), len(percentages))
	if n == 0 {
		return nil
	}

	pitch := cfg.StrokeWidth + cfg.Gap
	outer := cfg.Center() - pitch
	bg := cfg.Background()

	rings := make([]model.RingDescriptor, n)
	for i := 0; i < n; i++ {
		c := categories[i]
		radius := outer - pitch*float64(n-i-1)
		circumference := 2 * math.Pi * radius
		rings[i] = model.RingDescriptor{
			Index:           i,
			Label:           c.Label,
			Value:           SanitizeValue(c.Value),
			Radius:          radius,
			Color:           colorOf(c, cfg, i),
			Percentage:      percentages[i],
			StrokeLength:    circumference * percentages[i] / 100,
			Circumference:   circumference,
			StrokeOffset:    circumference * ringStartTurn,
			Rotation:        ringRotation,
			BackgroundColor: bg,
		}
	}
	return rings
}

// ComputeRadialLayout resolves percentages and lays out the rings.
// Empty input or any fault during resolution produces the "No Data"
// placeholder instead of an error; faults are logged.
func ComputeRadialLayout(categories []model.Category, cfg model.ChartConfig) model.RadialLayout {
	_, total := weights(categories)
	layout := model.RadialLayout{
		Size:        cfg.Size,
		Center:      cfg.Center(),
		StrokeWidth: cfg.StrokeWidth,
		Total:       total,
		ShowLabels:  cfg.ShowLabels,
	}

	rings, err := buildRings(categories, cfg)
	if err != nil {
		log.Printf("ringchart radial layout: %v", err)
	}
	if len(rings) == 0 {
		return noData(layout, cfg)
	}

	layout.Rings = rings
	return layout
}

func finitePercentage(c model.Category) (float64, bool) {
	if c.Percentage == nil {
		return 0, false
	}
	p := *c.Percentage
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}

func buildRings(categories []model.Category, cfg model.ChartConfig) (rings []model.RingDescriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			rings = nil
			err = fmt.Errorf("%w: %v", ErrLayoutFault, r)
		}
	}()

	pcts, err := ResolvePercentages(categories)
	if err != nil {
		return nil, err
	}
	return LayoutConcentricRings(categories, pcts, cfg), nil
}

func noData(layout model.RadialLayout, cfg model.ChartConfig) model.RadialLayout {
	layout.NoData = true
	layout.Rings = nil
	layout.NoDataLabel = cfg.EmptyLabel()
	layout.Placeholder = &model.BackgroundRing{
		Radius:      cfg.Center() - (cfg.StrokeWidth + cfg.Gap),
		StrokeWidth: cfg.StrokeWidth,
		Color:       cfg.Background(),
	}
	return layout
}
