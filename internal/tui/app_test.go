package tui

import (
	"os"
	"strings"
	"testing"

	"github.com/theirongolddev/ringchart/internal/config"
	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/source"
	"github.com/theirongolddev/ringchart/internal/tui/components"
	"github.com/theirongolddev/ringchart/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
)

func testApp() App {
	a := NewApp(Options{Chart: model.DefaultChartConfig()})
	a.loaded = true
	a.width = 100
	a.height = 30
	a.datasets = []source.Dataset{
		{Name: "fruit", Categories: []model.Category{
			{Label: "apples", Value: 3},
			{Label: "pears", Value: 1},
		}},
		{Name: "empty"},
	}
	return a
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := len(tab.Name) + 2
			if i != active && tab.KeyPos < 0 {
				w += 3 // "[x]"
			}
			x := pos + w/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 50); got != -1 {
			t.Errorf("active=%d past last tab -> %d, want -1", active, got)
		}
	}
}

func TestMouseClickSelectsTab(t *testing.T) {
	a := testApp()
	// "Donut" is active (7 wide) and the separator follows; Radial starts at 8
	m, _ := a.Update(tea.MouseMsg{X: 9, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != tabRadial {
		t.Errorf("activeTab = %d, want %d", got, tabRadial)
	}
}

func TestGapKeysFollowActiveTab(t *testing.T) {
	a := press(t, testApp(), "+", "+")
	if a.chart.GapDegrees != model.DefaultGapDegrees+2 {
		t.Errorf("GapDegrees = %v, want %v", a.chart.GapDegrees, model.DefaultGapDegrees+2)
	}

	a = press(t, a, "r", "-")
	if a.activeTab != tabRadial {
		t.Fatalf("activeTab = %d, want radial", a.activeTab)
	}
	if a.chart.Gap != model.DefaultRingGap-1 {
		t.Errorf("Gap = %v, want %v", a.chart.Gap, model.DefaultRingGap-1)
	}

	for i := 0; i < 10; i++ {
		a = press(t, a, "-")
	}
	if a.chart.Gap != 0 {
		t.Errorf("Gap = %v, want clamp at 0", a.chart.Gap)
	}
}

func TestRotateAndReset(t *testing.T) {
	a := press(t, testApp(), "]", "]")
	if a.chart.StartAngle != -60 {
		t.Errorf("StartAngle = %v, want -60", a.chart.StartAngle)
	}
	a = press(t, a, ">", "l", "0")
	if a.chart.StartAngle != model.DefaultStartAngle || a.chart.StrokeWidth != model.DefaultStrokeWidth || !a.chart.ShowLabels {
		t.Errorf("reset did not restore base config: %+v", a.chart)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{-195, 165},
		{540, 180},
		{-90, -90},
		{270, -90},
	}
	for _, tt := range tests {
		if got := normalizeAngle(tt.in); got != tt.want {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDatasetCyclingWraps(t *testing.T) {
	a := press(t, testApp(), "p")
	if a.current != 1 {
		t.Fatalf("current = %d, want 1", a.current)
	}
	a = press(t, a, "n")
	if a.current != 0 {
		t.Errorf("current = %d, want 0", a.current)
	}
}

func TestDataTabEditsValueWithoutMutatingLoaderData(t *testing.T) {
	a := testApp()
	original := a.datasets[0].Categories

	a = press(t, a, "t", "j", "enter")
	if !a.data.editing || a.data.cursor != 1 {
		t.Fatalf("editing=%v cursor=%d, want editing row 1", a.data.editing, a.data.cursor)
	}
	a.data.input.SetValue("abc")
	a = press(t, a, "enter")
	if a.data.err == nil || !a.data.editing {
		t.Fatalf("non-number accepted: err=%v editing=%v", a.data.err, a.data.editing)
	}

	a.data.input.SetValue("7.5")
	a = press(t, a, "enter")
	if a.data.editing {
		t.Fatal("still editing after valid value")
	}
	if got := a.categories()[1].Value; got != 7.5 {
		t.Errorf("value = %v, want 7.5", got)
	}
	if original[1].Value != 1 {
		t.Errorf("loader slice mutated: %v", original[1].Value)
	}
}

func TestSettingsSaveAppliesAndPersists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	a := testApp()
	a.activeTab = tabSettings
	a = press(t, a, "j", "j", "enter")
	if !a.settings.editing || a.settings.cursor != settingsFieldGapDegrees {
		t.Fatalf("editing=%v cursor=%d", a.settings.editing, a.settings.cursor)
	}
	a.settings.input.SetValue("10")
	a = press(t, a, "enter")
	if a.settings.saveErr != nil {
		t.Fatalf("save: %v", a.settings.saveErr)
	}
	if !a.settings.saved || a.base.GapDegrees != 10 || a.chart.GapDegrees != 10 {
		t.Errorf("saved=%v base=%v chart=%v", a.settings.saved, a.base.GapDegrees, a.chart.GapDegrees)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chart.GapDegrees != 10 {
		t.Errorf("persisted gap = %v, want 10", cfg.Chart.GapDegrees)
	}

	a = press(t, a, "enter")
	a.settings.input.SetValue("999")
	a = press(t, a, "enter")
	if a.settings.saveErr == nil {
		t.Error("out of range gap accepted")
	}
	if _, err := os.Stat(config.Path()); err != nil {
		t.Errorf("config file missing: %v", err)
	}
}

func TestApplySetup(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := SetupValuesFrom(cfg)
	vals.Theme = "tokyo-night"
	vals.StrokeWidth = "12"
	vals.GapDegrees = "oops"
	vals.ShowLabels = false

	got := ApplySetup(cfg, vals)
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("theme = %q", got.Appearance.Theme)
	}
	if got.Chart.StrokeWidth != 12 {
		t.Errorf("stroke = %v, want 12", got.Chart.StrokeWidth)
	}
	if got.Chart.GapDegrees != cfg.Chart.GapDegrees {
		t.Errorf("bad gap overwrote config: %v", got.Chart.GapDegrees)
	}
	if got.Chart.ShowLabels {
		t.Error("labels still on")
	}

	vals.Theme = "no-such-theme"
	if got := ApplySetup(cfg, vals); got.Appearance.Theme != cfg.Appearance.Theme {
		t.Errorf("unknown theme applied: %q", got.Appearance.Theme)
	}
}

func TestDisplayConfigUsesThemeColors(t *testing.T) {
	a := testApp()
	cfg := a.displayConfig()
	if cfg.BackgroundColor != theme.Active.Track {
		t.Errorf("background = %q, want theme track %q", cfg.BackgroundColor, theme.Active.Track)
	}
	if cfg.Palette[0] != theme.Active.Palette[0] {
		t.Errorf("palette = %v, want theme palette", cfg.Palette)
	}

	a.chart.Palette = []string{"#000000"}
	if got := a.displayConfig().Palette; len(got) != 1 || got[0] != "#000000" {
		t.Errorf("custom palette replaced: %v", got)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := testApp()
	for tab := range components.Tabs {
		a.activeTab = tab
		for _, ds := range []int{0, 1} {
			a.current = ds
			out := a.View()
			if !strings.Contains(out, "Donut") {
				t.Errorf("tab %d dataset %d: tab bar missing", tab, ds)
			}
			if lines := strings.Count(out, "\n") + 1; lines != a.height {
				t.Errorf("tab %d dataset %d: %d lines, want %d", tab, ds, lines, a.height)
			}
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := testApp()
	a.width = 40
	if out := a.View(); !strings.Contains(out, "too narrow") {
		t.Errorf("narrow view = %q", out)
	}
}
