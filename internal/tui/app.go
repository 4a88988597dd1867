// Package tui provides the interactive Bubble Tea viewer for ringchart.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/theirongolddev/ringchart/internal/cli"
	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/pipeline"
	"github.com/theirongolddev/ringchart/internal/source"
	"github.com/theirongolddev/ringchart/internal/tui/components"
	"github.com/theirongolddev/ringchart/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the dataset loader finishes.
type DataLoadedMsg struct {
	Datasets []source.Dataset
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Loader produces the datasets to view. progress may be called from any
// goroutine.
type Loader func(progress pipeline.ProgressFunc) ([]source.Dataset, error)

// Options configures a new App.
type Options struct {
	Chart     model.ChartConfig
	Loader    Loader
	NeedSetup bool
}

const (
	tabDonut = iota
	tabRadial
	tabData
	tabSettings
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 160
	minContentHeight = 5

	gapStep       = 1.0
	rotateStep    = 15.0
	strokeStep    = 2.0
	maxGapDegrees = 30.0
	maxRingGap    = 20.0
	minStroke     = 2.0
)

// App is the root Bubble Tea model.
type App struct {
	// Data
	datasets []source.Dataset
	current  int
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// base is the configured geometry; chart is the live, adjusted copy
	base  model.ChartConfig
	chart model.ChartConfig

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	keys      keyMap
	help      help.Model

	// Per-tab state
	data     dataState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loader      Loader
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine
}

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	chart := opts.Chart
	if chart.Size <= 0 {
		chart = model.DefaultChartConfig()
	}

	return App{
		base:      chart,
		chart:     chart,
		keys:      defaultKeyMap(),
		help:      help.New(),
		needSetup: opts.NeedSetup,
		spinner:   sp,
		loader:    opts.Loader,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.loader, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Text inputs intercept all keys while editing
		if a.activeTab == tabData && a.data.editing {
			return a.updateDataInput(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}

		if key.Matches(msg, a.keys.Help) {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if a.activeTab == tabData {
			if m, cmd, handled := a.updateDataKeys(msg); handled {
				return m, cmd
			}
		}
		if a.activeTab == tabSettings {
			if m, cmd, handled := a.updateSettingsKeys(msg); handled {
				return m, cmd
			}
		}

		return a.updateGlobalKeys(msg)

	case DataLoadedMsg:
		a.datasets = msg.Datasets
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		a.loaded = true
		a.current = 0

		// Activate first-run setup after data loads
		if a.needSetup {
			a.setupVals = SetupValuesFrom(loadConfigOrDefault())
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.NextTab):
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	case key.Matches(msg, a.keys.PrevTab):
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case key.Matches(msg, a.keys.GapUp):
		a.adjustGap(gapStep)
	case key.Matches(msg, a.keys.GapDown):
		a.adjustGap(-gapStep)
	case key.Matches(msg, a.keys.RotateLeft):
		a.chart.StartAngle = normalizeAngle(a.chart.StartAngle - rotateStep)
	case key.Matches(msg, a.keys.RotateRight):
		a.chart.StartAngle = normalizeAngle(a.chart.StartAngle + rotateStep)
	case key.Matches(msg, a.keys.Thicker):
		a.adjustStroke(strokeStep)
	case key.Matches(msg, a.keys.Thinner):
		a.adjustStroke(-strokeStep)
	case key.Matches(msg, a.keys.Labels):
		a.chart.ShowLabels = !a.chart.ShowLabels
	case key.Matches(msg, a.keys.NextDataset):
		a.selectDataset(a.current + 1)
	case key.Matches(msg, a.keys.PrevDataset):
		a.selectDataset(a.current - 1)
	case key.Matches(msg, a.keys.Reset):
		a.chart = a.base
	default:
		if runes := msg.Runes; len(runes) == 1 {
			if tab := components.TabIdxByKey(runes[0]); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabData && a.data.cursor > 0 {
			a.data.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabData && a.data.cursor < len(a.categories())-1 {
			a.data.cursor++
		}
	case tea.MouseButtonLeft:
		// Tab bar is the first line
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := ApplySetup(loadConfigOrDefault(), a.setupVals)
		if err := config.Save(cfg); err != nil {
			a.settings.saveErr = err
		}
		theme.SetActive(cfg.Appearance.Theme)
		a.base = cfg.ChartConfig()
		a.chart = a.base
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// adjustGap widens or narrows the gap of the chart on screen: degrees
// between donut arcs, or pixels between radial rings.
func (a *App) adjustGap(delta float64) {
	if a.activeTab == tabRadial {
		a.chart.Gap = clamp(a.chart.Gap+delta, 0, maxRingGap)
		return
	}
	a.chart.GapDegrees = clamp(a.chart.GapDegrees+delta, 0, maxGapDegrees)
}

func (a *App) adjustStroke(delta float64) {
	a.chart.StrokeWidth = clamp(a.chart.StrokeWidth+delta, minStroke, a.chart.Size/4)
}

// selectDataset moves to dataset i, wrapping at both ends.
func (a *App) selectDataset(i int) {
	n := len(a.datasets)
	if n == 0 {
		return
	}
	a.current = ((i % n) + n) % n
	a.data = dataState{}
}

// categories returns the categories of the selected dataset.
func (a App) categories() []model.Category {
	if a.current < 0 || a.current >= len(a.datasets) {
		return nil
	}
	return a.datasets[a.current].Categories
}

func (a App) datasetName() string {
	if a.current < 0 || a.current >= len(a.datasets) {
		return ""
	}
	return a.datasets[a.current].Name
}

// displayConfig is the live chart config with theme colors substituted for
// untouched defaults.
func (a App) displayConfig() model.ChartConfig {
	cfg := a.chart
	t := theme.Active
	if cfg.BackgroundColor == "" || cfg.BackgroundColor == model.DefaultBackgroundColor {
		cfg.BackgroundColor = t.Track
	}
	if len(cfg.Palette) == 0 || samePalette(cfg.Palette, model.DefaultPalette) {
		cfg.Palette = t.Palette
	}
	return cfg
}

func samePalette(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  ringchart needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◎ ringchart"))
	b.WriteString(subtitleStyle.Render(" · donut & radial layouts"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing datasets\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Discovering datasets..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	h := a.help
	h.ShowAll = true

	var b strings.Builder
	b.WriteString(titleStyle.Render("◎ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.View(a.keys))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("d r t x jump to tab · j k enter on Data and Settings"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + dataset pill
	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	accentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	info := pillStyle.Render(" ")
	if name := a.datasetName(); name != "" {
		info += accentStyle.Render(name)
		if len(a.datasets) > 1 {
			info += pillStyle.Render(fmt.Sprintf(" (%d/%d)", a.current+1, len(a.datasets)))
		}
	} else {
		info += pillStyle.Render("no dataset")
	}
	info += pillStyle.Render(" │ ") +
		accentStyle.Render(fmt.Sprintf("%d", len(a.categories()))) +
		pillStyle.Render(" categories ")

	infoRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" + infoRowStyle.Render(info)

	// 2. Status bar
	right := fmt.Sprintf("loaded in %.1fs", a.loadTime.Seconds())
	if a.loadErr != nil {
		right = "load error: " + truncStr(a.loadErr.Error(), 40)
	}
	statusBar := components.RenderStatusBar(w, a.help.ShortHelpView(a.keys.ShortHelp()), right)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabDonut:
		content = a.renderDonutTab(cw, contentH)
	case tabRadial:
		content = a.renderRadialTab(cw, contentH)
	case tabData:
		content = a.renderDataTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

// loadDataCmd starts the loader in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(loader Loader, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if loader == nil {
			return DataLoadedMsg{}
		}

		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled.
			// If the channel is full, we skip this update; the next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			datasets, err := loader(progressFn)
			sub <- DataLoadedMsg{
				Datasets: datasets,
				LoadTime: time.Since(start),
				Err:      err,
			}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// normalizeAngle maps deg into (-180, 180].
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	}
	if deg <= -180 {
		deg += 360
	}
	return deg
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
