// Package pipeline loads dataset files in bulk and imports them into the store.
package pipeline

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/ringchart/internal/model"
	"github.com/theirongolddev/ringchart/internal/source"
)

// LoadResult holds the output of loading a dataset directory.
type LoadResult struct {
	Datasets    []source.Dataset
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	Errors      []error
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// LoadDir discovers and parses all dataset files under dir.
// It uses a bounded worker pool for parallel parsing. Datasets are returned
// sorted by name; files that fail to parse are counted, not fatal.
func LoadDir(dir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	for _, pr := range results {
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, pr.Err)
			continue
		}
		result.ParsedFiles++
		result.Datasets = append(result.Datasets, pr.Dataset)
	}

	sort.SliceStable(result.Datasets, func(i, j int) bool {
		return result.Datasets[i].Name < result.Datasets[j].Name
	})

	return result, nil
}

// DatasetSaver is the subset of the store used by Import.
type DatasetSaver interface {
	SaveDataset(name, sourcePath string, cats []model.Category) error
}

// ImportResult extends LoadResult with store write counts.
type ImportResult struct {
	LoadResult
	Saved      int
	SaveErrors int
}

// Import loads every dataset under dir and saves it by name. When two files
// resolve to the same name the one sorting last by path wins.
func Import(dir string, saver DatasetSaver, progressFn ProgressFunc) (*ImportResult, error) {
	loaded, err := LoadDir(dir, progressFn)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{LoadResult: *loaded}

	byName := make(map[string]source.Dataset, len(loaded.Datasets))
	for _, ds := range loaded.Datasets {
		if prev, ok := byName[ds.Name]; ok && prev.Path > ds.Path {
			continue
		}
		byName[ds.Name] = ds
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ds := byName[name]
		if err := saver.SaveDataset(ds.Name, ds.Path, ds.Categories); err != nil {
			result.SaveErrors++
			result.Errors = append(result.Errors, fmt.Errorf("saving %s: %w", ds.Name, err))
			continue
		}
		result.Saved++
	}

	return result, nil
}
