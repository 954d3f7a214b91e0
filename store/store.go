// Package store provides SQLite-backed persistence for compiled units.
// It sits outside the compiler core: the pipeline never touches disk,
// and the surrounding tool decides what to keep.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cdl-lang/go-cdl/ir"
)

// Store handles database operations for compiled units.
type Store struct {
	db *sql.DB
}

// Record is one persisted unit with its metadata.
type Record struct {
	CID      string
	Module   string
	SavedAt  time.Time
	NumRules int
}

// Open creates a store backed by the database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS units (
			cid        TEXT PRIMARY KEY,
			module     TEXT NOT NULL,
			num_rules  INTEGER NOT NULL,
			saved_at   TIMESTAMP NOT NULL,
			body       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_units_module ON units(module)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save persists a unit keyed by its content id and returns that id.
// Saving the same unit twice is a no-op.
func (s *Store) Save(unit *ir.Unit) (string, error) {
	body, err := unit.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("encode unit: %w", err)
	}
	cid := unit.CID()

	_, err = s.db.Exec(`
		INSERT INTO units (cid, module, num_rules, saved_at, body)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cid) DO NOTHING`,
		cid, unit.Module, len(unit.Constraints), time.Now().UTC(), string(body))
	if err != nil {
		return "", fmt.Errorf("save unit: %w", err)
	}
	return cid, nil
}

// Load returns the unit with the given content id.
func (s *Store) Load(cid string) (*ir.Unit, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM units WHERE cid = ?`, cid).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: no unit with cid %q", cid)
	}
	if err != nil {
		return nil, fmt.Errorf("load unit: %w", err)
	}
	return ir.DecodeUnit([]byte(body))
}

// List returns metadata for every stored unit, newest first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT cid, module, num_rules, saved_at
		FROM units ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.CID, &r.Module, &r.NumRules, &r.SavedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Delete removes the unit with the given content id.
func (s *Store) Delete(cid string) error {
	_, err := s.db.Exec(`DELETE FROM units WHERE cid = ?`, cid)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
