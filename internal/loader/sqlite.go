package loader

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultSQLiteQuery selects the price table of a SQLite input file.
const DefaultSQLiteQuery = "SELECT * FROM prices"

// SQLiteSource reads a price table from a SQLite database file.
// The database is opened read-only; column names come from the result set.
type SQLiteSource struct {
	Path  string
	Query string
}

func (s *SQLiteSource) Name() string { return "sqlite:" + filepath.Base(s.Path) }

func (s *SQLiteSource) Load(ctx context.Context) (*RawTable, error) {
	db, err := sql.Open("sqlite", "file:"+s.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	query := s.Query
	if query == "" {
		query = DefaultSQLiteQuery
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	raw := &RawTable{Columns: columns}
	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make([]string, len(columns))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		raw.Rows = append(raw.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return raw, nil
}
