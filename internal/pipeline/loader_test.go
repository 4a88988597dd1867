package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/theirongolddev/ringchart/internal/model"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.json":     `[{"value":1},{"value":2}]`,
		"a.csv":      "label,value\nx,3\n",
		"bad.json":   `[{`,
		"readme.txt": "ignored",
	})

	var mu sync.Mutex
	var calls, lastTotal int
	result, err := LoadDir(dir, func(current, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		lastTotal = total
	})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	if result.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3", result.TotalFiles)
	}
	if result.ParsedFiles != 2 || result.FileErrors != 1 {
		t.Errorf("ParsedFiles = %d, FileErrors = %d; want 2, 1", result.ParsedFiles, result.FileErrors)
	}
	if len(result.Datasets) != 2 || result.Datasets[0].Name != "a" || result.Datasets[1].Name != "b" {
		t.Fatalf("datasets = %+v, want a then b", result.Datasets)
	}
	if calls != 3 || lastTotal != 3 {
		t.Errorf("progress calls = %d total = %d, want 3 and 3", calls, lastTotal)
	}
}

func TestLoadDir_Empty(t *testing.T) {
	result, err := LoadDir(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 0 || len(result.Datasets) != 0 {
		t.Fatalf("result = %+v, want empty", result)
	}
}

type memSaver struct {
	saved map[string][]model.Category
	fail  string
}

func (m *memSaver) SaveDataset(name, _ string, cats []model.Category) error {
	if name == m.fail {
		return errors.New("disk full")
	}
	m.saved[name] = cats
	return nil
}

func TestImport(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"leads.json":        `{"name":"pipeline","categories":[{"value":4}]}`,
		"hours.csv":         "value\n1\n2\n",
		"nested/broken.csv": "label,color\nx,red\n",
	})

	saver := &memSaver{saved: map[string][]model.Category{}}
	result, err := Import(dir, saver, nil)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Saved != 2 {
		t.Errorf("Saved = %d, want 2", result.Saved)
	}
	if result.FileErrors != 1 {
		t.Errorf("FileErrors = %d, want 1", result.FileErrors)
	}
	if _, ok := saver.saved["pipeline"]; !ok {
		t.Error("dataset named by JSON document not saved")
	}
	if got := saver.saved["hours"]; len(got) != 2 {
		t.Errorf("hours = %+v, want 2 categories", got)
	}
}

func TestImport_SaveErrorsCounted(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.json": `[{"value":1}]`,
		"b.json": `[{"value":2}]`,
	})

	saver := &memSaver{saved: map[string][]model.Category{}, fail: "a"}
	result, err := Import(dir, saver, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Saved != 1 || result.SaveErrors != 1 {
		t.Fatalf("Saved = %d SaveErrors = %d, want 1 and 1", result.Saved, result.SaveErrors)
	}
}

func BenchmarkLoadDir(b *testing.B) {
	dir := b.TempDir()
	for i := 0; i < 64; i++ {
		body := "label,value\n"
		for j := 0; j < 50; j++ {
			body += fmt.Sprintf("c%d,%d\n", j, j*i)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("set%02d.csv", i)), []byte(body), 0o600); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadDir(dir, nil); err != nil {
			b.Fatal(err)
		}
	}
}
