// Package palettestore provides persistent storage for site-specific palettes using SQLite.
package palettestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atlasmap-sc/colorscale/pkg/colormap"
	_ "modernc.org/sqlite"
)

// Palette is a stored palette row.
type Palette struct {
	Name      string              `json:"name"`
	Colors    colormap.ColorScale `json:"colors"`
	Source    string              `json:"source"` // file path or tool that imported it
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Store provides persistent storage for palettes using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore creates a new SQLite-based palette store.
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for sqlite: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS palettes (
		name TEXT PRIMARY KEY,
		colors_json TEXT NOT NULL,
		source TEXT DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put inserts or replaces a palette.
func (s *Store) Put(name string, colors colormap.ColorScale, source string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty palette name", colormap.ErrInvalidArgument)
	}
	if len(colors) == 0 {
		return fmt.Errorf("%w: palette %q has no colors", colormap.ErrInvalidArgument, name)
	}

	colorsJSON, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("failed to marshal colors: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`
		INSERT INTO palettes (name, colors_json, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			colors_json = excluded.colors_json,
			source = excluded.source,
			updated_at = excluded.updated_at
	`, name, string(colorsJSON), source, now, now)
	return err
}

// Get retrieves a palette by name. It returns nil, nil when no palette exists.
func (s *Store) Get(name string) (*Palette, error) {
	row := s.db.QueryRow(`
		SELECT name, colors_json, source, created_at, updated_at
		FROM palettes WHERE name = ?
	`, name)

	p, err := scanPalette(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all stored palettes ordered by name.
func (s *Store) List() ([]*Palette, error) {
	rows, err := s.db.Query(`
		SELECT name, colors_json, source, created_at, updated_at
		FROM palettes ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var palettes []*Palette
	for rows.Next() {
		p, err := scanPalette(rows)
		if err != nil {
			return nil, err
		}
		palettes = append(palettes, p)
	}
	return palettes, rows.Err()
}

// All returns every stored palette keyed by name, ready for colormap.Registry.With.
func (s *Store) All() (map[string]colormap.ColorScale, error) {
	palettes, err := s.List()
	if err != nil {
		return nil, err
	}
	scales := make(map[string]colormap.ColorScale, len(palettes))
	for _, p := range palettes {
		scales[p.Name] = p.Colors
	}
	return scales, nil
}

// Delete removes a palette and reports whether it existed.
func (s *Store) Delete(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM palettes WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPalette(sc scanner) (*Palette, error) {
	var p Palette
	var colorsJSON, createdAtStr, updatedAtStr string
	if err := sc.Scan(&p.Name, &colorsJSON, &p.Source, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(colorsJSON), &p.Colors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal colors for %q: %w", p.Name, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &p, nil
}
