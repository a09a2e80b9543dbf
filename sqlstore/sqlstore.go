// Package sqlstore keeps a library of programs in a SQLite database
package sqlstore

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/object"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS lines (
	program TEXT NOT NULL,
	num     INTEGER NOT NULL,
	text    TEXT NOT NULL,
	PRIMARY KEY (program, num)
)`

// Store is a program library, one row per program line
type Store struct {
	db *sql.DB
}

// Open opens, or creates, the database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the lines of the named program
func (s *Store) Load(name string) ([]ast.SourceLine, error) {
	slog.Debug("sql load", "program", name)

	rows, err := s.db.Query(`SELECT num, text FROM lines WHERE program = ? ORDER BY num`, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer rows.Close()

	var lines []ast.SourceLine
	for rows.Next() {
		var sl ast.SourceLine
		if err := rows.Scan(&sl.Num, &sl.Text); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		lines = append(lines, sl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", name, object.ErrNotFound)
	}

	return lines, nil
}

// Save replaces the named program in a single transaction
func (s *Store) Save(name string, lines []ast.SourceLine) error {
	slog.Debug("sql save", "program", name, "lines", len(lines))

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	if _, err := tx.Exec(`DELETE FROM lines WHERE program = ?`, name); err != nil {
		tx.Rollback()
		return fmt.Errorf("save %s: %w", name, err)
	}

	for _, sl := range lines {
		if _, err := tx.Exec(`INSERT INTO lines (program, num, text) VALUES (?, ?, ?)`, name, sl.Num, sl.Text); err != nil {
			tx.Rollback()
			return fmt.Errorf("save %s line %d: %w", name, sl.Num, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Programs lists the names in the library
func (s *Store) Programs() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT program FROM lines ORDER BY program`)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("list programs: %w", err)
		}
		names = append(names, n)
	}

	return names, rows.Err()
}
