// Package render draws chart layouts. It only consumes descriptors from
// internal/geometry; no geometry is recomputed here beyond mapping dash
// offsets onto the target primitive.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/model"

	svg "github.com/ajstarks/svgo/float"
)

const (
	labelColor  = "#6B7280"
	labelFamily = "sans-serif"
)

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

// SVGDonut writes a donut layout as an SVG document.
func SVGDonut(w io.Writer, l model.DonutLayout) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(l.Size, l.Size)
	canvas.Title("donut chart")

	// A stroke wider than the chart leaves no drawable radius.
	if bg := l.Background; bg.Radius > 0 {
		canvas.Circle(l.Center, l.Center, bg.Radius, ringStyle(bg.Color, bg.StrokeWidth))
	}

	for _, a := range l.Arcs {
		if a.Radius <= 0 || a.StrokeLength <= 0 {
			continue
		}
		canvas.Circle(l.Center, l.Center, a.Radius,
			dashStyle(a.Color, l.StrokeWidth, a.StrokeLength, a.Circumference, a.StrokeOffset),
			rotateAttr(a.StartAngle, a.StrokeOffset, a.Circumference, l.Center),
		)
	}

	if l.ShowLabels && len(l.Arcs) > 0 {
		centerText(canvas, l.Center, l.Size, cli.FormatValue(l.Total))
	}

	canvas.End()
	return ew.err
}

// SVGRadial writes a radial layout as an SVG document. A layout without data
// is drawn as a single gray ring with the no-data label.
func SVGRadial(w io.Writer, l model.RadialLayout) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(l.Size, l.Size)
	canvas.Title("radial chart")

	if l.NoData {
		if p := l.Placeholder; p != nil && p.Radius > 0 {
			canvas.Circle(l.Center, l.Center, p.Radius, ringStyle(p.Color, p.StrokeWidth))
		}
		centerText(canvas, l.Center, l.Size, l.NoDataLabel)
		canvas.End()
		return ew.err
	}

	for _, r := range l.Rings {
		if r.Radius <= 0 {
			continue
		}
		canvas.Circle(l.Center, l.Center, r.Radius, ringStyle(r.BackgroundColor, l.StrokeWidth))
		if r.StrokeLength <= 0 {
			continue
		}
		length := math.Min(r.StrokeLength, r.Circumference)
		canvas.Circle(l.Center, l.Center, r.Radius,
			dashStyle(r.Color, l.StrokeWidth, length, r.Circumference, r.StrokeOffset),
			rotateAttr(r.Rotation, r.StrokeOffset, r.Circumference, l.Center),
		)
	}

	if l.ShowLabels {
		centerText(canvas, l.Center, l.Size, cli.FormatValue(l.Total))
	}

	canvas.End()
	return ew.err
}

func ringStyle(color string, width float64) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", color, num(width))
}

func dashStyle(color string, width, length, circumference, offset float64) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s;stroke-dasharray:%s %s;stroke-dashoffset:%s",
		color, num(width), num(length), num(circumference-length), num(offset))
}

// rotateAttr turns the circle so the dash, shifted by offset along SVG's
// clockwise path from 3 o'clock, begins at startAngle.
func rotateAttr(startAngle, offset, circumference, center float64) string {
	natural := 0.0
	if circumference != 0 {
		natural = -360 * offset / circumference
	}
	angle := math.Mod(startAngle-natural, 360)
	if angle < 0 {
		angle += 360
	}
	return fmt.Sprintf(`transform="rotate(%s %s %s)"`, num(angle), num(center), num(center))
}

func centerText(canvas *svg.SVG, center, size float64, text string) {
	if text == "" {
		return
	}
	fontSize := math.Max(size/10, 8)
	canvas.Text(center, center, text,
		fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:%s;font-size:%spx;fill:%s",
			labelFamily, num(fontSize), labelColor))
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}
