/*
Package sqlite reads policy tables out of a SQLite export.

PURPOSE:
  Some policy exports arrive as a SQLite file (one table per policy kind)
  rather than JSON or a spreadsheet. This package opens such a file
  strictly read-only and materializes a named table as a table.Table.

READ-ONLY:
  The database is opened with mode=ro and _query_only, so nothing in this
  process can write to the export. There is no schema and no migration.

TYPE MAPPING:
  INTEGER / REAL       -> number
  TEXT / BLOB          -> text (amount-looking text stays text; callers
                          convert on demand)
  DATE / DATETIME      -> date
  NULL                 -> null

USAGE:
  src, err := sqlite.Open("./data/insurance.db")
  if err != nil {
      return err
  }
  defer src.Close()

  home, err := src.ReadTable(ctx, "home")

SEE ALSO:
  - loader/loader.go: Dispatches .db/.sqlite paths here
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/insurance-dashboard/table"
)

// ErrTableNotFound is returned when the export has no table of the requested name.
var ErrTableNotFound = errors.New("table not found in database")

// Source is a read-only handle on a SQLite export.
type Source struct {
	db   *sql.DB
	path string
}

// Open opens the database at path read-only and verifies it is reachable.
func Open(path string) (*Source, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_query_only=true")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Source{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Source) Close() error {
	return s.db.Close()
}

// Tables lists the user tables in the export, sorted by name.
func (s *Source) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadTable loads every row of the named table, in rowid order.
func (s *Source) ReadTable(ctx context.Context, name string) (*table.Table, error) {
	// The name is checked against sqlite_master before it is spliced into SQL.
	names, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q in %s (have %v)", ErrTableNotFound, name, s.path, names)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, name))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", name, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", name, err)
	}

	var data [][]table.Cell
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", name, err)
		}
		cells := make([]table.Cell, len(columns))
		for i, v := range raw {
			cells[i] = toCell(v)
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return table.New(columns, data)
}

func toCell(v any) table.Cell {
	switch x := v.(type) {
	case nil:
		return table.Null()
	case int64:
		return table.Int(x)
	case float64:
		return table.Number(decimal.NewFromFloat(x))
	case bool:
		if x {
			return table.Int(1)
		}
		return table.Int(0)
	case time.Time:
		return table.Date(x.UTC())
	case []byte:
		return table.Text(string(x))
	case string:
		return table.Text(x)
	default:
		return table.Text(fmt.Sprint(x))
	}
}
