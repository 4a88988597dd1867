package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/tui/components"
	"github.com/theirongolddev/ringchart/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldStroke
	settingsFieldGapDegrees
	settingsFieldStartAngle
	settingsFieldRingGap
	settingsFieldLabels
	settingsFieldNoData
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func (a App) updateSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
		return a, nil, true
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
		return a, nil, true
	case "enter":
		m, cmd := a.settingsStartEdit()
		return m, cmd, true
	}
	return a, nil, false
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 30

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldStroke:
		ti.Placeholder = "20"
		ti.SetValue(formatSetting(a.base.StrokeWidth))
	case settingsFieldGapDegrees:
		ti.Placeholder = "4 (degrees between arcs)"
		ti.SetValue(formatSetting(a.base.GapDegrees))
	case settingsFieldStartAngle:
		ti.Placeholder = "-90 (12 o'clock)"
		ti.SetValue(formatSetting(a.base.StartAngle))
	case settingsFieldRingGap:
		ti.Placeholder = "2 (pixels between rings)"
		ti.SetValue(formatSetting(a.base.Gap))
	case settingsFieldLabels:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.base.ShowLabels))
	case settingsFieldNoData:
		ti.Placeholder = "No Data"
		ti.SetValue(a.base.EmptyLabel())
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited field, writes it to the config file and
// applies it to the chart on screen.
func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())

	num := func(lo, hi float64) (float64, bool) {
		v, err := strconv.ParseFloat(val, 64)
		if err != nil || v < lo || v > hi {
			a.settings.saveErr = fmt.Errorf("%q is not a number in [%s, %s]", val, formatSetting(lo), formatSetting(hi))
			return 0, false
		}
		return v, true
	}

	switch a.settings.cursor {
	case settingsFieldTheme:
		found := false
		for _, name := range theme.Names() {
			if name == val {
				found = true
				break
			}
		}
		if !found {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldStroke:
		v, ok := num(minStroke, a.base.Size/4)
		if !ok {
			return
		}
		cfg.Chart.StrokeWidth = v
		a.base.StrokeWidth, a.chart.StrokeWidth = v, v
	case settingsFieldGapDegrees:
		v, ok := num(0, maxGapDegrees)
		if !ok {
			return
		}
		cfg.Chart.GapDegrees = v
		a.base.GapDegrees, a.chart.GapDegrees = v, v
	case settingsFieldStartAngle:
		v, ok := num(-360, 360)
		if !ok {
			return
		}
		v = normalizeAngle(v)
		cfg.Chart.StartAngle = v
		a.base.StartAngle, a.chart.StartAngle = v, v
	case settingsFieldRingGap:
		v, ok := num(0, maxRingGap)
		if !ok {
			return
		}
		cfg.Chart.RingGap = v
		a.base.Gap, a.chart.Gap = v, v
	case settingsFieldLabels:
		on, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("%q is not true or false", val)
			return
		}
		cfg.Chart.ShowLabels = on
		a.base.ShowLabels, a.chart.ShowLabels = on, on
	case settingsFieldNoData:
		cfg.Chart.NoDataLabel = val
		a.base.NoDataLabel, a.chart.NoDataLabel = val, val
	}

	a.settings.saveErr = config.Save(cfg)
}

func formatSetting(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	fields := []field{
		{"Theme", t.Name},
		{"Stroke Width", cli.FormatLength(a.base.StrokeWidth)},
		{"Gap Degrees", cli.FormatDegrees(a.base.GapDegrees)},
		{"Start Angle", cli.FormatDegrees(a.base.StartAngle)},
		{"Ring Gap", cli.FormatLength(a.base.Gap)},
		{"Show Labels", strconv.FormatBool(a.base.ShowLabels)},
		{"No-Data Label", a.base.EmptyLabel()},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-16s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-16s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Datasets loaded: ") + valueStyle.Render(cli.FormatNumber(int64(len(a.datasets)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Chart size:      ") + valueStyle.Render(cli.FormatLength(a.base.Size)) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
