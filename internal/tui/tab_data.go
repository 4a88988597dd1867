package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/source"
	"github.com/theirongolddev/ringchart/internal/tui/components"
	"github.com/theirongolddev/ringchart/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dataState tracks the data tab: which category is selected and whether its
// value is being edited.
type dataState struct {
	cursor  int
	editing bool
	input   textinput.Model
	err     error
}

func newValueInput(value float64) textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 10
	ti.Placeholder = "number"
	ti.SetValue(strconv.FormatFloat(value, 'f', -1, 64))
	ti.Focus()
	return ti
}

func (a App) updateDataKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	cats := a.categories()

	switch msg.String() {
	case "j", "down":
		if a.data.cursor < len(cats)-1 {
			a.data.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.data.cursor > 0 {
			a.data.cursor--
		}
		return a, nil, true
	case "enter":
		if a.data.cursor >= len(cats) {
			return a, nil, true
		}
		a.data.editing = true
		a.data.err = nil
		a.data.input = newValueInput(cats[a.data.cursor].Value)
		return a, a.data.input.Cursor.BlinkCmd(), true
	}
	return a, nil, false
}

func (a App) updateDataInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		raw := strings.TrimSpace(a.data.input.Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			a.data.err = fmt.Errorf("not a number: %q", raw)
			return a, nil
		}
		a.setValue(a.data.cursor, v)
		a.data.editing = false
		a.data.err = nil
		return a, nil
	case "esc":
		a.data.editing = false
		a.data.err = nil
		return a, nil
	}

	var cmd tea.Cmd
	a.data.input, cmd = a.data.input.Update(msg)
	return a, cmd
}

// setValue replaces the value of category i in the selected dataset. The
// categories slice is copied so loader-owned data is never mutated.
func (a *App) setValue(i int, v float64) {
	if a.current < 0 || a.current >= len(a.datasets) {
		return
	}
	src := a.datasets[a.current].Categories
	if i < 0 || i >= len(src) {
		return
	}
	cats := make([]model.Category, len(src))
	copy(cats, src)
	cats[i].Value = v

	datasets := make([]source.Dataset, len(a.datasets))
	copy(datasets, a.datasets)
	datasets[a.current].Categories = cats
	a.datasets = datasets
}

func (a App) renderDataTab(cw int) string {
	t := theme.Active
	cats := a.categories()
	cfg := a.displayConfig()

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	if len(cats) == 0 {
		return components.ContentCard("Data", dimStyle.Render("no categories in this dataset"), cw)
	}

	inner := components.CardInnerWidth(cw)
	labelW := inner - 2 - 2 - 14 - 12 - 14 - 3
	if labelW < 8 {
		labelW = 8
	}

	var b strings.Builder
	b.WriteString(space.Render("    "))
	b.WriteString(headStyle.Render(fmt.Sprintf("%-*s %14s %12s %14s", labelW, "Label", "Value", "Percentage", "Color")))
	b.WriteString("\n")

	for i, c := range cats {
		color := c.Color
		if color == "" {
			color = cfg.ColorFor(i)
		}
		pct := "-"
		if c.Percentage != nil {
			pct = cli.FormatPoints(*c.Percentage)
		}
		value := cli.FormatValue(c.Value)
		if a.data.editing && i == a.data.cursor {
			value = a.data.input.View()
		}

		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		style := rowStyle
		marker := space.Render("  ")
		if i == a.data.cursor {
			style = selStyle
			marker = markerStyle.Render("▸ ")
			swatch = swatch.Background(t.SurfaceBright)
		} else {
			swatch = swatch.Background(t.Surface)
		}

		line := marker + swatch.Render("● ") +
			style.Render(fmt.Sprintf("%-*s ", labelW, truncStr(labelOr(c.Label, i), labelW))) +
			style.Render(padLeftTo(value, 14)) +
			style.Render(fmt.Sprintf(" %12s %14s", pct, color))
		if pad := inner - lipgloss.Width(line); pad > 0 {
			line += style.Render(strings.Repeat(" ", pad))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if a.data.err != nil {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(a.data.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[j/k] navigate  [Enter] edit value  [Esc] cancel  [n/p] dataset"))

	return components.ContentCard(fmt.Sprintf("Data · %s", a.datasetName()), b.String(), cw)
}

func padLeftTo(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}
