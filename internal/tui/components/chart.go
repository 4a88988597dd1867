package components

import (
	"strings"

	"github.com/theirongolddev/ringchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// LegendEntry is one row of a chart legend.
type LegendEntry struct {
	Label   string
	Color   string
	Share   float64 // 0-1, drives the bar fill
	Caption string  // value or percentage text
}

// Legend renders entries as share bars that fit width.
func Legend(entries []LegendEntry, width int) string {
	if len(entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.Active.TextDim).
			Background(theme.Active.Surface).
			Render("no categories")
	}

	labelW := 4
	captionW := 0
	for _, e := range entries {
		if w := lipgloss.Width(e.Label); w > labelW {
			labelW = w
		}
		if w := lipgloss.Width(e.Caption); w > captionW {
			captionW = w
		}
	}
	if labelW > width/3 {
		labelW = width / 3
	}

	// swatch + spaces around label and bar
	barW := width - labelW - captionW - 5
	if barW > 40 {
		barW = 40
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, ShareBar(e.Label, e.Color, e.Share, e.Caption, labelW, barW))
	}
	return strings.Join(lines, "\n")
}

// ChartArt wraps pre-rendered braille art with surface background fill.
func ChartArt(art string, width int) string {
	t := theme.Active
	fill := lipgloss.NewStyle().Background(t.Surface)

	lines := strings.Split(art, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, line,
			lipgloss.WithWhitespaceBackground(t.Surface))
	}
	return fill.Render(strings.Join(lines, "\n"))
}
