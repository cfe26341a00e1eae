/*
Package loader turns policy export files into tables.

PURPOSE:
  Reads one tabular file per call and hands back a table.Table. The reader
  is picked from the file extension:

    .json                  pandas-style JSON (records, columns or split orient)
    .xlsx                  first worksheet, or the sheet named after '#';
                           date-formatted cells are read as dates
    .csv                   header row followed by data rows
    .db .sqlite .sqlite3   read-only SQLite export, table named after '#'
                           (defaults to the file's base name)

FAILURE MODEL:
  Load returns a typed error (*NotFoundError, *ParseError). Read wraps Load
  for startup code: it logs the failure and returns a Result whose Ok()
  tells the caller whether a table is present, so a missing file degrades
  one chart instead of stopping the process.

SEE ALSO:
  - json.go, sheet.go: Format readers
  - store/sqlite: SQLite export reader
  - insurance/dashboard.go: Consumes Results
*/
package loader

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/warp/insurance-dashboard/store/sqlite"
	"github.com/warp/insurance-dashboard/table"
)

// Result is the outcome of loading one input file.
type Result struct {
	Path  string
	Table *table.Table
	Err   error
}

// Ok reports whether a table was loaded.
func (r Result) Ok() bool { return r.Err == nil && r.Table != nil }

// Read loads path and never fails: errors are logged and carried in the Result.
func Read(ctx context.Context, path string) Result {
	t, err := Load(ctx, path)
	if err != nil {
		log.Printf("[Loader] Failed to load %s: %v", path, err)
		return Result{Path: path, Err: err}
	}
	log.Printf("[Loader] Loaded %s: %d rows, %d columns", path, t.Len(), t.Width())
	return Result{Path: path, Table: t}
}

// Load reads the table stored at path. A '#' suffix selects a sheet or a
// database table, e.g. "data/insurance.db#auto".
func Load(ctx context.Context, path string) (*table.Table, error) {
	file, fragment := splitFragment(path)
	if file == "" {
		return nil, &NotFoundError{Path: path}
	}
	info, err := os.Stat(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: file}
		}
		return nil, &NotFoundError{Path: file, Err: err}
	}
	if info.IsDir() {
		return nil, &ParseError{Path: file, Err: errors.New("is a directory")}
	}

	var t *table.Table
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".json":
		t, err = readJSONFile(file)
	case ".xlsx", ".xlsm":
		t, err = readSpreadsheet(file, fragment)
	case ".csv":
		t, err = readCSVFile(file)
	case ".db", ".sqlite", ".sqlite3":
		t, err = readSQLite(ctx, file, fragment)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return t, nil
}

func splitFragment(path string) (file, fragment string) {
	if i := strings.LastIndex(path, "#"); i > 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func readSQLite(ctx context.Context, file, name string) (*table.Table, error) {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	src, err := sqlite.Open(file)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.ReadTable(ctx, name)
}
