// Package source discovers and parses dataset files into chart categories.
package source

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/ringchart/internal/model"
)

var (
	// ErrUnknownFormat is returned for files that are neither JSON nor CSV.
	ErrUnknownFormat = errors.New("unknown dataset format")

	// ErrNoValueColumn is returned for CSV files without value or percentage.
	ErrNoValueColumn = errors.New("csv has no value or percentage column")
)

// ParseResult holds the output of parsing a single dataset file.
type ParseResult struct {
	Dataset Dataset
	Err     error
}

// ParseFile reads a dataset file. JSON documents that carry a "name" field
// override the file-derived dataset name.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	format := df.Format
	if format == "" {
		var ok bool
		if format, ok = FormatOf(df.Path); !ok {
			return ParseResult{Err: fmt.Errorf("%s: %w", df.Path, ErrUnknownFormat)}
		}
	}

	cats, name, err := Parse(f, format)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("parsing %s: %w", df.Path, err)}
	}
	if name == "" {
		name = df.Name
	}

	return ParseResult{Dataset: Dataset{
		Name:       name,
		Path:       df.Path,
		Categories: cats,
	}}
}

// Parse decodes categories from r. An empty format is detected from content.
// The returned name is only set by JSON documents in object form.
func Parse(r io.Reader, format Format) ([]model.Category, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if format == "" {
		format = DetectFormat(data)
	}

	switch format {
	case FormatJSON:
		return DecodeCategories(data)
	case FormatCSV:
		cats, err := DecodeCSV(bytes.NewReader(data))
		return cats, "", err
	default:
		return nil, "", ErrUnknownFormat
	}
}

// DetectFormat guesses JSON when the first non-space byte opens an array or
// object, and CSV otherwise.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatCSV
}

// DecodeCategories decodes a JSON array of categories or an object with
// "name" and "categories". Non-numeric values become 0; non-numeric
// percentages are treated as absent.
func DecodeCategories(data []byte) ([]model.Category, string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, "", nil
	}

	var (
		items []json.RawMessage
		name  string
	)
	if data[0] == '{' {
		var doc rawDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, "", fmt.Errorf("decoding dataset: %w", err)
		}
		items, name = doc.Categories, doc.Name
	} else if err := json.Unmarshal(data, &items); err != nil {
		return nil, "", fmt.Errorf("decoding categories: %w", err)
	}

	cats := make([]model.Category, 0, len(items))
	for i, item := range items {
		var rc rawCategory
		if err := json.Unmarshal(item, &rc); err != nil {
			return nil, "", fmt.Errorf("category %d: %w", i, err)
		}
		cats = append(cats, rc.category())
	}
	return cats, name, nil
}

func (rc rawCategory) category() model.Category {
	c := model.Category{Label: rc.Label, Color: rc.Color}
	if v, ok := jsonNumber(rc.Value); ok {
		c.Value = v
	}
	if p, ok := jsonNumber(rc.Percentage); ok {
		c.Percentage = &p
	}
	return c
}

// jsonNumber reports the value of raw when it is a JSON number.
func jsonNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}

// DecodeCSV reads categories from CSV with a header row. Columns are matched
// case-insensitively: label, value, percentage, color.
func DecodeCSV(r io.Reader) ([]model.Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	_, hasValue := cols["value"]
	_, hasPct := cols["percentage"]
	if !hasValue && !hasPct {
		return nil, ErrNoValueColumn
	}

	cell := func(row []string, name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	var cats []model.Category
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}

		var c model.Category
		c.Label, _ = cell(row, "label")
		c.Color, _ = cell(row, "color")
		if s, ok := cell(row, "value"); ok {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				c.Value = v
			}
		}
		if s, ok := cell(row, "percentage"); ok && s != "" {
			if p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
				c.Percentage = &p
			}
		}
		cats = append(cats, c)
	}
	return cats, nil
}
