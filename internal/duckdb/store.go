// Package duckdb provides a DuckDB-backed join engine for gene-name
// conversion. Lookup rows and dataset keys are appended to an in-memory
// database and joined in SQL.
package duckdb

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/inodb/tcrconvert/internal/lookup"
)

var schema = []string{
	`CREATE TABLE lookup_rows (ord BIGINT, src VARCHAR, dst VARCHAR)`,
	`CREATE TABLE join_keys (row_id BIGINT, gene VARCHAR)`,
}

// Store holds one lookup table and the keys being joined against it in an
// in-memory DuckDB database.
type Store struct {
	db *sql.DB

	// lookup_rows currently holds this table's from -> to columns.
	loaded   *lookup.Table
	from, to lookup.Convention
}

// Open creates an empty in-memory join database.
func Open() (*Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// Appends and queries must share the one in-memory database.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create join tables: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) count(table string) (int, error) {
	var n int
	err := s.db.QueryRow("SELECT count(*) FROM " + table).Scan(&n)
	return n, err
}
