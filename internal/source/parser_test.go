package source

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeDataset creates a temp dataset file and returns a DiscoveredFile for it.
func writeDataset(t *testing.T, name, body string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	format, _ := FormatOf(path)
	return DiscoveredFile{Path: path, Name: DatasetName(path), Format: format}
}

func TestParseFile_JSONArray(t *testing.T) {
	df := writeDataset(t, "expenses.json", `[
		{"label":"Travel","value":120,"color":"#ff0000"},
		{"label":"Meals","value":"n/a"},
		{"label":"Lodging","value":null},
		{"label":"Other"}
	]`)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	ds := result.Dataset
	if ds.Name != "expenses" {
		t.Errorf("Name = %q, want expenses", ds.Name)
	}
	if len(ds.Categories) != 4 {
		t.Fatalf("len(Categories) = %d, want 4", len(ds.Categories))
	}
	if ds.Categories[0].Value != 120 || ds.Categories[0].Color != "#ff0000" {
		t.Errorf("first category = %+v", ds.Categories[0])
	}
	for i := 1; i < 4; i++ {
		if ds.Categories[i].Value != 0 {
			t.Errorf("category %d Value = %v, want coerced 0", i, ds.Categories[i].Value)
		}
		if ds.Categories[i].Percentage != nil {
			t.Errorf("category %d Percentage set, want nil", i)
		}
	}
}

func TestParseFile_JSONObjectNameWins(t *testing.T) {
	df := writeDataset(t, "file.json", `{"name":"leads","categories":[
		{"label":"Open","percentage":40},
		{"label":"Won","percentage":"high"},
		{"label":"Lost","percentage":null}
	]}`)

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	ds := result.Dataset
	if ds.Name != "leads" {
		t.Errorf("Name = %q, want leads", ds.Name)
	}
	if p := ds.Categories[0].Percentage; p == nil || *p != 40 {
		t.Errorf("Open percentage = %v, want 40", p)
	}
	if ds.Categories[1].Percentage != nil {
		t.Error("non-numeric percentage should be absent")
	}
	if ds.Categories[2].Percentage != nil {
		t.Error("null percentage should be absent")
	}
}

func TestParseFile_InvalidJSON(t *testing.T) {
	df := writeDataset(t, "broken.json", `[{"label":`)
	if result := ParseFile(df); result.Err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestParseFile_CSV(t *testing.T) {
	df := writeDataset(t, "hours.csv", strings.Join([]string{
		"Label, Value, Color, Percentage",
		"Design, 12.5, #00ff00,",
		"Build, abc, ,",
		"Review, 3, , 25%",
		"Ghost, 1, , NaN",
	}, "\n"))

	result := ParseFile(df)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	cats := result.Dataset.Categories
	if len(cats) != 4 {
		t.Fatalf("len = %d, want 4", len(cats))
	}
	if cats[0].Label != "Design" || cats[0].Value != 12.5 || cats[0].Color != "#00ff00" {
		t.Errorf("row 1 = %+v", cats[0])
	}
	if cats[0].Percentage != nil {
		t.Error("empty percentage should be absent")
	}
	if cats[1].Value != 0 {
		t.Errorf("unparseable value = %v, want 0", cats[1].Value)
	}
	if p := cats[2].Percentage; p == nil || *p != 25 {
		t.Errorf("percent suffix = %v, want 25", p)
	}
	if p := cats[3].Percentage; p == nil || !math.IsNaN(*p) {
		t.Errorf("NaN percentage = %v, want NaN kept", p)
	}
}

func TestDecodeCSV_NoValueColumn(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("label,color\na,red\n"))
	if !errors.Is(err, ErrNoValueColumn) {
		t.Fatalf("err = %v, want ErrNoValueColumn", err)
	}
}

func TestParse_DetectsFormat(t *testing.T) {
	cats, _, err := Parse(strings.NewReader("  [{\"value\":1}]"), "")
	if err != nil || len(cats) != 1 {
		t.Fatalf("JSON detect: cats=%v err=%v", cats, err)
	}

	cats, _, err = Parse(strings.NewReader("value\n1\n2\n"), "")
	if err != nil || len(cats) != 2 {
		t.Fatalf("CSV detect: cats=%v err=%v", cats, err)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.CSV", "notes.txt", ".hidden.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.json"), []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("found %d files, want 3: %+v", len(files), files)
	}
	names := map[string]Format{}
	for _, f := range files {
		names[f.Name] = f.Format
	}
	if names["a"] != FormatJSON || names["b"] != FormatCSV || names["c"] != FormatJSON {
		t.Errorf("names = %v", names)
	}
}

func TestScanDir_Missing(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || files != nil {
		t.Fatalf("ScanDir(missing) = %v, %v; want nil, nil", files, err)
	}
}
