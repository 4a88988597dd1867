package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/ringchart/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("Test setup error: short card should be shorter than tall card")
	}

	// Short card second so its padding ends each joined line
	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("Joined height should match tallest card: got %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.HasSuffix(lines[i], "\x1b[0m") {
			t.Errorf("Line %d padding is not styled: %q", i, lines[i])
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("Line %d width = %d, want %d", i, w, want)
		}
	}
	if want != 50 {
		t.Errorf("row width = %d, want 50", want)
	}
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	if len(got) != 3 || got[0] != 4 || got[1] != 3 || got[2] != 3 {
		t.Fatalf("LayoutRow(10, 3) = %v, want [4 3 3]", got)
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestTabVisualWidth(t *testing.T) {
	if got := TabVisualWidth(Tabs[0], true); got != len("Donut")+2 {
		t.Errorf("active Donut width = %d, want %d", got, len("Donut")+2)
	}
	if got := TabVisualWidth(Tabs[2], false); got != len("Data")+2 {
		t.Errorf("inactive Data width = %d, want %d", got, len("Data")+2)
	}
	if got := TabVisualWidth(Tabs[3], false); got != len("Settings")+5 {
		t.Errorf("inactive Settings width = %d, want %d", got, len("Settings")+5)
	}
}

func TestLegend(t *testing.T) {
	out := Legend([]LegendEntry{
		{Label: "Rent", Color: "#FF0000", Share: 0.5, Caption: "50"},
		{Label: "Food", Color: "#00FF00", Share: 1.5, Caption: "30"},
	}, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("legend lines = %d, want 2", len(lines))
	}
	if !strings.Contains(out, "Rent") || !strings.Contains(out, "30") {
		t.Errorf("legend missing content: %q", out)
	}
	if !strings.Contains(Legend(nil, 40), "no categories") {
		t.Error("empty legend placeholder missing")
	}
}
