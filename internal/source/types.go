package source

import (
	"encoding/json"

	"github.com/theirongolddev/ringchart/internal/model"
)

// Format identifies a dataset file encoding.
type Format string

// Supported dataset formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// DiscoveredFile represents a dataset file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string // dataset name derived from the file name
	Format Format
}

// Dataset is a named list of categories.
type Dataset struct {
	Name       string
	Path       string
	Categories []model.Category
}

// rawDocument is the object form of a JSON dataset.
type rawDocument struct {
	Name       string            `json:"name"`
	Categories []json.RawMessage `json:"categories"`
}

// rawCategory keeps numeric fields raw so non-numbers can be coerced
// instead of failing the whole document.
type rawCategory struct {
	Label      string          `json:"label"`
	Value      json.RawMessage `json:"value"`
	Percentage json.RawMessage `json:"percentage"`
	Color      string          `json:"color"`
}
