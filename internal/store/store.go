// Package store provides a SQLite-backed store for named datasets.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/ringchart/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a dataset does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store persists datasets in SQLite.
type Store struct {
	db *sql.DB
}

// DatasetInfo summarizes a stored dataset.
type DatasetInfo struct {
	Name       string    `json:"name"`
	SourcePath string    `json:"source_path,omitempty"`
	Categories int       `json:"categories"`
	Total      float64   `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Open opens or creates the dataset database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDataset replaces the dataset called name with cats.
// sourcePath records where the categories came from and may be empty.
func (s *Store) SaveDataset(name, sourcePath string, cats []model.Category) error {
	if name == "" {
		return errors.New("dataset name is empty")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.Exec(`INSERT INTO datasets (name, source_path, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET source_path = excluded.source_path, updated_at = excluded.updated_at`,
		name, sourcePath, now, now)
	if err != nil {
		return fmt.Errorf("saving dataset %s: %w", name, err)
	}

	if _, err := tx.Exec("DELETE FROM categories WHERE dataset = ?", name); err != nil {
		return err
	}

	for i, c := range cats {
		var pct sql.NullFloat64
		if c.Percentage != nil && finite(*c.Percentage) {
			pct = sql.NullFloat64{Float64: *c.Percentage, Valid: true}
		}
		value := c.Value
		if !finite(value) {
			value = 0
		}
		_, err = tx.Exec(`INSERT INTO categories (dataset, position, label, value, percentage, color)
			VALUES (?, ?, ?, ?, ?, ?)`,
			name, i, c.Label, value, pct, c.Color)
		if err != nil {
			return fmt.Errorf("saving category %d of %s: %w", i, name, err)
		}
	}

	return tx.Commit()
}

// LoadDataset returns the categories of a stored dataset in their saved order.
func (s *Store) LoadDataset(name string) ([]model.Category, error) {
	var exists int
	err := s.db.QueryRow("SELECT COUNT(*) FROM datasets WHERE name = ?", name).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	rows, err := s.db.Query(`SELECT label, value, percentage, color
		FROM categories WHERE dataset = ? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cats := []model.Category{}
	for rows.Next() {
		var (
			c            model.Category
			label, color sql.NullString
			pct          sql.NullFloat64
		)
		if err := rows.Scan(&label, &c.Value, &pct, &color); err != nil {
			return nil, err
		}
		c.Label = label.String
		c.Color = color.String
		if pct.Valid {
			p := pct.Float64
			c.Percentage = &p
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ListDatasets returns all datasets ordered by name.
func (s *Store) ListDatasets() ([]DatasetInfo, error) {
	rows, err := s.db.Query(`SELECT d.name, d.source_path, d.created_at, d.updated_at,
		COUNT(c.position), COALESCE(SUM(CASE WHEN c.value > 0 THEN c.value ELSE 0 END), 0)
		FROM datasets d LEFT JOIN categories c ON c.dataset = d.name
		GROUP BY d.name ORDER BY d.name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []DatasetInfo
	for rows.Next() {
		var (
			info                   DatasetInfo
			source                 sql.NullString
			createdStr, updatedStr string
		)
		if err := rows.Scan(&info.Name, &source, &createdStr, &updatedStr, &info.Categories, &info.Total); err != nil {
			return nil, err
		}
		info.SourcePath = source.String
		info.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteDataset removes a dataset and its categories.
func (s *Store) DeleteDataset(name string) error {
	res, err := s.db.Exec("DELETE FROM datasets WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

// DatasetCount returns the number of stored datasets.
func (s *Store) DatasetCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count)
	return count, err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
