// Package geometry computes drawing parameters for circular charts.
//
// Every function here is pure: descriptors are rebuilt from the inputs on
// each call and nothing is cached between calls. The package never draws;
// renderers in internal/render (or any HTTP client) consume its output.
package geometry

import (
	"math"

	"github.com/theirongolddev/ringchart/internal/model"
)

// minArcScale keeps arcs visible when gaps would consume the whole circle.
const minArcScale = 0.0001

// SanitizeValue coerces NaN, infinities and negative values to 0.
func SanitizeValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Normalize converts raw weights into fractions of a circle.
// The divisor is floored at 1, so an all-zero input yields all-zero
// fractions instead of NaN.
func Normalize(values []float64) []float64 {
	fractions := make([]float64, len(values))
	if len(values) == 0 {
		return fractions
	}

	clean := make([]float64, len(values))
	total := 0.0
	for i, v := range values {
		clean[i] = SanitizeValue(v)
		total += clean[i]
	}
	total = math.Max(total, 1)

	for i, v := range clean {
		fractions[i] = v / total
	}
	return fractions
}

// GapAllocation is the result of reserving gaps between donut arcs.
type GapAllocation struct {
	Scaled      []float64 // data fractions rescaled to fit beside the gaps
	GapFraction float64   // one gap as a fraction of the circle
	ArcScale    float64   // share of the circle left for data
}

// AllocateGaps reserves gapDegrees after every segment and rescales the
// fractions into what remains. It never fails: when the gaps alone would
// fill the circle the data shrinks to a sliver of minArcScale.
func AllocateGaps(fractions []float64, gapDegrees float64) GapAllocation {
	gapFraction := gapDegrees / 360
	totalGap := float64(len(fractions)) * gapFraction
	arcScale := math.Max(1-totalGap, minArcScale)

	scaled := make([]float64, len(fractions))
	for i, f := range fractions {
		scaled[i] = f * arcScale
	}

	return GapAllocation{
		Scaled:      scaled,
		GapFraction: gapFraction,
		ArcScale:    arcScale,
	}
}

// weights returns the sanitized category values and their sum.
func weights(categories []model.Category) ([]float64, float64) {
	out := make([]float64, len(categories))
	total := 0.0
	for i, c := range categories {
		out[i] = SanitizeValue(c.Value)
		total += out[i]
	}
	return out, total
}
