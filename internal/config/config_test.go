package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if Exists() {
		t.Fatal("Exists() = true before Save")
	}
	if cfg.Chart.GapDegrees != 4 {
		t.Errorf("GapDegrees = %v, want 4", cfg.Chart.GapDegrees)
	}
	if cfg.Chart.StartAngle != -90 {
		t.Errorf("StartAngle = %v, want -90", cfg.Chart.StartAngle)
	}
	if cfg.Chart.RingGap != 2 {
		t.Errorf("RingGap = %v, want 2", cfg.Chart.RingGap)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Chart.Size = 320
	cfg.Chart.Palette = []string{"#111111", "#222222"}
	cfg.Appearance.Theme = "tokyo-night"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Chart.Size != 320 {
		t.Errorf("Size = %v, want 320", got.Chart.Size)
	}
	if len(got.Chart.Palette) != 2 || got.Chart.Palette[1] != "#222222" {
		t.Errorf("Palette = %v", got.Chart.Palette)
	}
	if got.Appearance.Theme != "tokyo-night" {
		t.Errorf("Theme = %q, want tokyo-night", got.Appearance.Theme)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	body := "[chart]\nsize = 400\n"
	if err := os.MkdirAll(filepath.Join(dir, "ringchart"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ringchart", "config.toml"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cc := cfg.ChartConfig()
	if cc.Size != 400 {
		t.Errorf("Size = %v, want 400", cc.Size)
	}
	if cc.StrokeWidth != 20 {
		t.Errorf("StrokeWidth = %v, want default 20", cc.StrokeWidth)
	}
	if cc.Center() != 200 {
		t.Errorf("Center = %v, want 200", cc.Center())
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "ringchart"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ringchart", "config.toml"), []byte("[chart\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted invalid TOML")
	}
}

func TestStorePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	if got := StorePath(DefaultConfig()); got != filepath.Join("/cfg", "ringchart", "datasets.db") {
		t.Errorf("StorePath = %q", got)
	}

	cfg := DefaultConfig()
	cfg.Store.Path = "/data/sets.db"
	if got := StorePath(cfg); got != "/data/sets.db" {
		t.Errorf("StorePath override = %q", got)
	}
}
