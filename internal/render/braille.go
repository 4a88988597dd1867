package render

import (
	"math"
	"strings"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/model"

	"github.com/charmbracelet/lipgloss"
	drawille "github.com/exrook/drawille-go"
)

// MinCells is the narrowest braille chart that still resolves a ring.
const MinCells = 8

const (
	brailleBlank = '⠀'
	// dot bits cleared from the two anchor cells
	anchorTopLeft     = 0x01
	anchorBottomRight = 0x80
)

// shade reports the color of a chart-space point, or false when nothing
// covers it.
type shade func(x, y float64) (string, bool)

// BrailleDonut renders a donut layout as braille art cells wide.
func BrailleDonut(l model.DonutLayout, cells int) string {
	c := l.Center
	half := l.StrokeWidth / 2
	bg := l.Background

	lookup := func(x, y float64) (string, bool) {
		r := math.Hypot(x-c, y-c)
		if math.Abs(r-bg.Radius) > half {
			return "", false
		}
		theta := angleOf(x-c, y-c)
		for _, a := range l.Arcs {
			if a.SweepAngle > 0 && inSweep(theta, a.StartAngle, a.SweepAngle) {
				return a.Color, true
			}
		}
		return bg.Color, true
	}

	label := ""
	if l.ShowLabels && len(l.Arcs) > 0 {
		label = cli.FormatValue(l.Total)
	}
	return rasterize(l.Size, cells, lookup, label)
}

// BrailleRadial renders a radial layout as braille art cells wide. Each ring
// fills clockwise from its rotation angle in proportion to its percentage.
func BrailleRadial(l model.RadialLayout, cells int) string {
	c := l.Center
	half := l.StrokeWidth / 2

	if l.NoData {
		var lookup shade = func(float64, float64) (string, bool) { return "", false }
		if p := l.Placeholder; p != nil {
			lookup = func(x, y float64) (string, bool) {
				if math.Abs(math.Hypot(x-c, y-c)-p.Radius) > p.StrokeWidth/2 {
					return "", false
				}
				return p.Color, true
			}
		}
		return rasterize(l.Size, cells, lookup, l.NoDataLabel)
	}

	lookup := func(x, y float64) (string, bool) {
		r := math.Hypot(x-c, y-c)
		for _, ring := range l.Rings {
			if ring.Radius <= 0 || math.Abs(r-ring.Radius) > half {
				continue
			}
			sweep := math.Min(math.Max(ring.Percentage, 0), 100) * 3.6
			if sweep > 0 && inSweep(angleOf(x-c, y-c), ring.Rotation, sweep) {
				return ring.Color, true
			}
			return ring.BackgroundColor, true
		}
		return "", false
	}

	label := ""
	if l.ShowLabels {
		label = cli.FormatValue(l.Total)
	}
	return rasterize(l.Size, cells, lookup, label)
}

// rasterize samples lookup at every braille dot of a cells-wide square canvas
// and colors each cell with its first covered dot.
func rasterize(size float64, cells int, lookup shade, label string) string {
	if cells < MinCells {
		cells = MinCells
	}
	if size <= 0 {
		return ""
	}

	// a braille cell is 2x4 dots and a terminal cell is about twice as tall
	// as it is wide, so dots are square
	dotsW := cells * 2
	rows := (dotsW + 3) / 4
	dotsH := rows * 4
	scale := size / float64(dotsW)
	offsetY := float64(dotsH-dotsW) / 2

	canvas := drawille.NewCanvas()
	colors := make([][]string, rows)
	for i := range colors {
		colors[i] = make([]string, cells)
	}

	for py := 0; py < dotsH; py++ {
		for px := 0; px < dotsW; px++ {
			x := (float64(px) + 0.5) * scale
			y := (float64(py) - offsetY + 0.5) * scale
			color, ok := lookup(x, y)
			if !ok {
				continue
			}
			canvas.Set(px, py)
			if cell := &colors[py/4][px/2]; *cell == "" {
				*cell = color
			}
		}
	}

	// pin both corners so the frame is never cropped to the drawn bounds
	canvas.Set(0, 0)
	canvas.Set(dotsW-1, dotsH-1)

	grid := gridOf(canvas.String(), rows, cells)
	grid[0][0] = clearDots(grid[0][0], anchorTopLeft)
	grid[rows-1][cells-1] = clearDots(grid[rows-1][cells-1], anchorBottomRight)

	overlayLabel(grid, colors, label)

	var b strings.Builder
	for i, row := range grid {
		writeRow(&b, row, colors[i])
		if i < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// gridOf splits drawille output into a rows x cells rune grid, padding short
// rows with blank braille.
func gridOf(frame string, rows, cells int) [][]rune {
	lines := strings.Split(strings.TrimRight(frame, "\n"), "\n")
	grid := make([][]rune, rows)
	for i := range grid {
		row := make([]rune, cells)
		for j := range row {
			row[j] = brailleBlank
		}
		if i < len(lines) {
			for j, r := range []rune(lines[i]) {
				if j >= cells {
					break
				}
				if r != ' ' {
					row[j] = r
				}
			}
		}
		grid[i] = row
	}
	return grid
}

func clearDots(r rune, mask rune) rune {
	if r < brailleBlank || r > brailleBlank+0xFF {
		return r
	}
	return brailleBlank | ((r - brailleBlank) &^ mask)
}

// overlayLabel writes label across the middle row when it fits in an
// uncovered stretch.
func overlayLabel(grid [][]rune, colors [][]string, label string) {
	if label == "" || len(grid) == 0 {
		return
	}
	text := []rune(label)
	row := len(grid) / 2
	width := len(grid[row])
	if len(text) > width {
		return
	}
	start := (width - len(text)) / 2
	for j := start; j < start+len(text); j++ {
		if colors[row][j] != "" {
			return
		}
	}
	for j, r := range text {
		grid[row][start+j] = r
		colors[row][start+j] = labelColor
	}
}

// writeRow styles consecutive cells of the same color as one run.
func writeRow(b *strings.Builder, row []rune, colors []string) {
	var run strings.Builder
	current := ""
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if current == "" {
			b.WriteString(run.String())
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(current)).Render(run.String()))
		}
		run.Reset()
	}

	for j, r := range row {
		if r == brailleBlank {
			r = ' '
		}
		color := colors[j]
		if r == ' ' {
			color = ""
		}
		if color != current {
			flush()
			current = color
		}
		run.WriteRune(r)
	}
	flush()
}

// angleOf returns the screen angle of (dx, dy) in [0, 360), clockwise from
// 3 o'clock.
func angleOf(dx, dy float64) float64 {
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	if angle < 0 {
		angle += 360
	}
	return angle
}

// inSweep reports whether angle lies within sweep degrees clockwise of start.
func inSweep(angle, start, sweep float64) bool {
	if sweep >= 360 {
		return true
	}
	d := math.Mod(angle-start, 360)
	if d < 0 {
		d += 360
	}
	return d <= sweep
}
