package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/tcrconvert/internal/convert"
	"github.com/inodb/tcrconvert/internal/lookup"
)

// joinQuery left-joins every key against the lookup rows. When a source
// name occurs on several rows the one appended first wins.
const joinQuery = `SELECT k.row_id, l.dst
	FROM join_keys k
	LEFT JOIN (
		SELECT src, arg_min(dst, ord) AS dst
		FROM lookup_rows
		GROUP BY src
	) l ON k.gene = l.src
	ORDER BY k.row_id`

// Join implements convert.Joiner. The lookup table is only re-appended when
// the table or the column pair changes. Join is not safe for concurrent use.
func (s *Store) Join(t *lookup.Table, from, to lookup.Convention, keys []string) ([]convert.Match, error) {
	if t != s.loaded || from != s.from || to != s.to {
		if err := s.writeLookup(t, from, to); err != nil {
			return nil, err
		}
	}
	if err := s.writeKeys(keys); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(joinQuery)
	if err != nil {
		return nil, fmt.Errorf("join keys: %w", err)
	}
	defer rows.Close()

	out := make([]convert.Match, len(keys))
	for rows.Next() {
		var rowID int64
		var dst sql.NullString
		if err := rows.Scan(&rowID, &dst); err != nil {
			return nil, fmt.Errorf("scan join result: %w", err)
		}
		if rowID < 0 || rowID >= int64(len(out)) {
			return nil, fmt.Errorf("join returned unknown row %d", rowID)
		}
		out[rowID] = convert.Match{Value: dst.String, Found: dst.Valid}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate join results: %w", err)
	}
	return out, nil
}

// writeLookup replaces lookup_rows with the from -> to columns of t.
func (s *Store) writeLookup(t *lookup.Table, from, to lookup.Convention) error {
	s.loaded = nil
	if _, err := s.db.Exec("DELETE FROM lookup_rows"); err != nil {
		return fmt.Errorf("clear lookup rows: %w", err)
	}

	err := s.appendRows("lookup_rows", func(a *goduckdb.Appender) error {
		for i, r := range t.Records {
			if err := a.AppendRow(int64(i), r.Get(from), r.Get(to)); err != nil {
				return fmt.Errorf("append lookup row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.loaded, s.from, s.to = t, from, to
	return nil
}

// writeKeys replaces join_keys with keys, numbered by position.
func (s *Store) writeKeys(keys []string) error {
	if _, err := s.db.Exec("DELETE FROM join_keys"); err != nil {
		return fmt.Errorf("clear join keys: %w", err)
	}
	return s.appendRows("join_keys", func(a *goduckdb.Appender) error {
		for i, k := range keys {
			if err := a.AppendRow(int64(i), k); err != nil {
				return fmt.Errorf("append key: %w", err)
			}
		}
		return nil
	})
}

// appendRows batch-inserts into table using the Appender API.
func (s *Store) appendRows(table string, fill func(*goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	return appender.Flush()
}
