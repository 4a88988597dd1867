package source

import (
	"os"
	"path/filepath"
	"strings"
)

// ScanDir walks dir and discovers all dataset files (.json and .csv).
// Hidden files and directories are skipped. A missing directory yields
// no files and no error.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		name := d.Name()
		if path != dir && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		format, ok := FormatOf(path)
		if !ok {
			return nil
		}

		files = append(files, DiscoveredFile{
			Path:   path,
			Name:   DatasetName(path),
			Format: format,
		})
		return nil
	})

	return files, err
}

// FormatOf maps a file extension to a dataset format.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".csv":
		return FormatCSV, true
	default:
		return "", false
	}
}

// DatasetName derives a dataset name from a file path:
//
//	"/data/q3-expenses.json" -> "q3-expenses"
func DatasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
