package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/ringchart/internal/geometry"
	"github.com/theirongolddev/ringchart/internal/model"
)

func sample() []model.Category {
	return []model.Category{
		{Label: "Rent", Value: 50},
		{Label: "Food", Value: 30},
		{Label: "Fun", Value: 20},
	}
}

func TestSVGDonut(t *testing.T) {
	cfg := model.DefaultChartConfig()
	cfg.ShowLabels = true
	layout := geometry.ComputeDonutLayout(sample(), cfg)

	var buf bytes.Buffer
	if err := SVGDonut(&buf, layout); err != nil {
		t.Fatalf("SVGDonut: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatalf("not an svg document:\n%s", out)
	}
	if got := strings.Count(out, "<circle"); got != 4 {
		t.Errorf("circles = %d, want background plus 3 arcs", got)
	}
	if got := strings.Count(out, "stroke-dasharray"); got != 3 {
		t.Errorf("dashed circles = %d, want 3", got)
	}
	if !strings.Contains(out, layout.Background.Color) {
		t.Error("background color missing")
	}
	if !strings.Contains(out, ">100<") {
		t.Error("total label missing")
	}
}

func TestSVGDonut_Empty(t *testing.T) {
	layout := geometry.ComputeDonutLayout(nil, model.DefaultChartConfig())

	var buf bytes.Buffer
	if err := SVGDonut(&buf, layout); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "<circle"); got != 1 {
		t.Errorf("circles = %d, want only the background", got)
	}
}

func TestSVGDonut_StrokeWiderThanChart(t *testing.T) {
	cfg := model.DefaultChartConfig()
	cfg.Size = 20
	cfg.StrokeWidth = 40
	layout := geometry.ComputeDonutLayout(sample(), cfg)

	var buf bytes.Buffer
	if err := SVGDonut(&buf, layout); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, `r="-`) {
		t.Errorf("negative radius emitted:\n%s", out)
	}
	if got := strings.Count(out, "<circle"); got != 0 {
		t.Errorf("circles = %d, want 0", got)
	}
}

func TestSVGRadial(t *testing.T) {
	layout := geometry.ComputeRadialLayout(sample(), model.DefaultChartConfig())

	var buf bytes.Buffer
	if err := SVGRadial(&buf, layout); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if got := strings.Count(out, "<circle"); got != 6 {
		t.Errorf("circles = %d, want track and progress per ring", got)
	}
	if got := strings.Count(out, "rotate("); got != 3 {
		t.Errorf("rotated circles = %d, want 3", got)
	}
}

func TestSVGRadial_NoData(t *testing.T) {
	layout := geometry.ComputeRadialLayout([]model.Category{}, model.DefaultChartConfig())

	var buf bytes.Buffer
	if err := SVGRadial(&buf, layout); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, model.DefaultNoDataLabel) {
		t.Errorf("no-data label missing:\n%s", out)
	}
	if got := strings.Count(out, "<circle"); got != 1 {
		t.Errorf("circles = %d, want single placeholder", got)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestSVG_ReportsWriteError(t *testing.T) {
	layout := geometry.ComputeDonutLayout(sample(), model.DefaultChartConfig())
	if err := SVGDonut(failWriter{}, layout); err == nil {
		t.Fatal("expected write error")
	}
}

func TestRotateAttr(t *testing.T) {
	// an offset of a quarter circumference already starts the dash at the top
	if got := rotateAttr(-90, 25, 100, 50); got != `transform="rotate(0 50 50)"` {
		t.Errorf("rotateAttr = %s", got)
	}
	if got := rotateAttr(0, 0, 100, 10); got != `transform="rotate(0 10 10)"` {
		t.Errorf("rotateAttr at 3 o'clock = %s", got)
	}
}

func TestBrailleDonut_Dimensions(t *testing.T) {
	layout := geometry.ComputeDonutLayout(sample(), model.DefaultChartConfig())
	out := BrailleDonut(layout, 24)

	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("rows = %d, want 12", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 24 {
			t.Errorf("row %d width = %d, want 24", i, w)
		}
	}
	if !strings.ContainsAny(out, "⣿⡇⢸") {
		t.Error("expected filled braille cells")
	}
}

func TestBrailleDonut_ClampsWidth(t *testing.T) {
	layout := geometry.ComputeDonutLayout(sample(), model.DefaultChartConfig())
	out := BrailleDonut(layout, 1)
	if w := lipgloss.Width(strings.Split(out, "\n")[0]); w != MinCells {
		t.Errorf("width = %d, want %d", w, MinCells)
	}
}

func TestBrailleRadial_NoDataLabel(t *testing.T) {
	layout := geometry.ComputeRadialLayout(nil, model.DefaultChartConfig())
	out := BrailleRadial(layout, 40)
	if !strings.Contains(out, model.DefaultNoDataLabel) {
		t.Errorf("no-data label missing:\n%s", out)
	}
}

func TestInSweep(t *testing.T) {
	tests := []struct {
		angle, start, sweep float64
		want                bool
	}{
		{270, 270, 10, true},
		{275, 270, 10, true},
		{265, 270, 10, false},
		{5, 350, 20, true},
		{0, -90, 90, true},
		{91, -90, 180, false},
		{123, 0, 360, true},
	}
	for _, tt := range tests {
		if got := inSweep(tt.angle, tt.start, tt.sweep); got != tt.want {
			t.Errorf("inSweep(%v, %v, %v) = %v, want %v", tt.angle, tt.start, tt.sweep, got, tt.want)
		}
	}
}
