package tui

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/geometry"
	"github.com/theirongolddev/ringchart/internal/render"
	"github.com/theirongolddev/ringchart/internal/tui/components"
	"github.com/theirongolddev/ringchart/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// cardChrome is the vertical space a ContentCard adds around its body:
// two border lines and a title line.
const cardChrome = 3

func (a App) renderDonutTab(cw, ch int) string {
	cfg := a.displayConfig()
	layout := geometry.ComputeDonutLayout(a.categories(), cfg)

	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Total", Value: cli.FormatValue(layout.Total)},
		{Label: "Arcs", Value: strconv.Itoa(len(layout.Arcs))},
		{Label: "Gap", Value: cli.FormatDegrees(cfg.GapDegrees), Hint: "+ / -"},
		{Label: "Start", Value: cli.FormatDegrees(cfg.StartAngle), Hint: "[ / ]"},
	}, cw)

	widths := components.LayoutRow(cw, 2)
	cells := chartCells(widths[0], ch-lipgloss.Height(metrics)-cardChrome)
	art := render.BrailleDonut(layout, cells)

	entries := make([]components.LegendEntry, 0, len(layout.Arcs))
	for _, arc := range layout.Arcs {
		share := arc.Fraction
		if layout.Total > 0 {
			share = arc.Value / layout.Total
		}
		entries = append(entries, components.LegendEntry{
			Label:   labelOr(arc.Label, arc.Index),
			Color:   arc.Color,
			Share:   share,
			Caption: cli.FormatValue(arc.Value) + " · " + cli.FormatPercent(share),
		})
	}

	row := components.CardRow([]string{
		components.ContentCard("Donut", components.ChartArt(art, components.CardInnerWidth(widths[0])), widths[0]),
		components.ContentCard("Legend", components.Legend(entries, components.CardInnerWidth(widths[1])), widths[1]),
	})
	return metrics + "\n" + row
}

func (a App) renderRadialTab(cw, ch int) string {
	cfg := a.displayConfig()
	layout := geometry.ComputeRadialLayout(a.categories(), cfg)

	sum := "-"
	if !layout.NoData {
		sum = cli.FormatPoints(layout.PercentageSum())
	}
	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Total", Value: cli.FormatValue(layout.Total)},
		{Label: "Rings", Value: strconv.Itoa(len(layout.Rings))},
		{Label: "Ring gap", Value: cli.FormatValue(cfg.Gap), Hint: "+ / -"},
		{Label: "Sum", Value: sum},
	}, cw)

	widths := components.LayoutRow(cw, 2)
	cells := chartCells(widths[0], ch-lipgloss.Height(metrics)-cardChrome)
	art := render.BrailleRadial(layout, cells)

	var legend string
	if layout.NoData {
		legend = lipgloss.NewStyle().
			Foreground(theme.Active.TextMuted).
			Background(theme.Active.Surface).
			Render(layout.NoDataLabel)
	} else {
		entries := make([]components.LegendEntry, 0, len(layout.Rings))
		// outermost ring first, matching the picture top-down
		for i := len(layout.Rings) - 1; i >= 0; i-- {
			ring := layout.Rings[i]
			entries = append(entries, components.LegendEntry{
				Label:   labelOr(ring.Label, ring.Index),
				Color:   ring.Color,
				Share:   ring.Percentage / 100,
				Caption: cli.FormatPoints(ring.Percentage),
			})
		}
		legend = components.Legend(entries, components.CardInnerWidth(widths[1]))
	}

	row := components.CardRow([]string{
		components.ContentCard("Radial", components.ChartArt(art, components.CardInnerWidth(widths[0])), widths[0]),
		components.ContentCard("Rings", legend, widths[1]),
	})
	return metrics + "\n" + row
}

// chartCells picks a braille width that fits a card of outerWidth and
// rowsAvail text rows. Braille charts are half as many rows as cells.
func chartCells(outerWidth, rowsAvail int) int {
	cells := components.CardInnerWidth(outerWidth)
	if byRows := rowsAvail * 2; byRows < cells {
		cells = byRows
	}
	if cells < render.MinCells {
		cells = render.MinCells
	}
	return cells
}

func labelOr(label string, index int) string {
	if label != "" {
		return label
	}
	return fmt.Sprintf("#%d", index+1)
}
