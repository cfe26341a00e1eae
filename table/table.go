/*
Package table is a small in-memory column table with declarative reshaping.

PURPOSE:
  Holds policy exports as loaded from disk and derives narrower views from
  them. Every operation is a pure function: it returns a new Table and never
  mutates its receiver, so a loaded table can be shared freely.

OPERATIONS:
  SelectColumns  keep named columns, in the given order
  DropColumns    remove named columns
  FilterRows     keep rows whose column equals a value
  Filter         keep rows matching a predicate
  Unpivot        wide-to-long reshape, nulls dropped
  Unique         distinct values of a column, first-seen order

COLUMN LOOKUP:
  Names match exactly first, then case-insensitively, so "DATE" and "Date"
  exports resolve the same way.

SEE ALSO:
  - cell.go: Cell values
  - errors.go: Error types
*/
package table

import (
	"fmt"
	"strings"
)

// Table is an immutable grid of cells with named columns.
type Table struct {
	columns []string
	rows    [][]Cell
}

// New builds a table. Every row must have exactly one cell per column and
// column names must be unique.
func New(columns []string, rows [][]Cell) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = true
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRow, i, len(r), len(columns))
		}
	}
	return &Table{
		columns: append([]string(nil), columns...),
		rows:    rows,
	}, nil
}

// MustNew is New for fixtures whose shape is known to be valid.
func MustNew(columns []string, rows [][]Cell) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Index returns the position of a column, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	for i, c := range t.columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool { return t.Index(name) >= 0 }

// Cell returns the cell at row i of the named column.
func (t *Table) Cell(i int, column string) (Cell, error) {
	idx, err := t.mustIndex(column)
	if err != nil {
		return Cell{}, err
	}
	return t.rows[i][idx], nil
}

// Column returns a copy of all cells of the named column.
func (t *Table) Column(name string) ([]Cell, error) {
	idx, err := t.mustIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]Cell, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

func (t *Table) mustIndex(name string) (int, error) {
	idx := t.Index(name)
	if idx < 0 {
		return -1, &ColumnError{Column: name, Available: t.Columns()}
	}
	return idx, nil
}

func (t *Table) indexes(names []string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		idx, err := t.mustIndex(n)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// Row is a single row of a Table.
type Row struct {
	t *Table
	i int
}

// Get returns the cell for the named column, or null if the column is absent.
func (r Row) Get(column string) Cell {
	idx := r.t.Index(column)
	if idx < 0 {
		return Null()
	}
	return r.t.rows[r.i][idx]
}

// Index returns the row's position in its table.
func (r Row) Index() int { return r.i }

// =============================================================================
// OPERATIONS
// =============================================================================

// SelectColumns keeps only the named columns, in the order given.
func (t *Table) SelectColumns(names ...string) (*Table, error) {
	idx, err := t.indexes(names)
	if err != nil {
		return nil, err
	}
	cols := make([]string, len(idx))
	for i, j := range idx {
		cols[i] = t.columns[j]
	}
	return t.project(cols, idx)
}

// DropColumns removes the named columns and keeps the rest in order.
func (t *Table) DropColumns(names ...string) (*Table, error) {
	drop, err := t.indexes(names)
	if err != nil {
		return nil, err
	}
	skip := make(map[int]bool, len(drop))
	for _, j := range drop {
		skip[j] = true
	}
	var cols []string
	var idx []int
	for j, c := range t.columns {
		if !skip[j] {
			cols = append(cols, c)
			idx = append(idx, j)
		}
	}
	return t.project(cols, idx)
}

func (t *Table) project(cols []string, idx []int) (*Table, error) {
	rows := make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		out := make([]Cell, len(idx))
		for k, j := range idx {
			out[k] = r[j]
		}
		rows[i] = out
	}
	return New(cols, rows)
}

// FilterRows keeps the rows whose column renders as value.
func (t *Table) FilterRows(column, value string) (*Table, error) {
	idx, err := t.mustIndex(column)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(r Row) bool {
		return r.t.rows[r.i][idx].String() == value
	}), nil
}

// Filter keeps the rows for which keep returns true, preserving order.
func (t *Table) Filter(keep func(Row) bool) *Table {
	var rows [][]Cell
	for i, r := range t.rows {
		if keep(Row{t: t, i: i}) {
			rows = append(rows, r)
		}
	}
	return &Table{columns: t.Columns(), rows: rows}
}

// Unpivot reshapes the table from wide to long form. Every column that is
// not an id column becomes a (varName, valueName) pair; rows whose value is
// null are dropped. Output is ordered by value column, then by input row.
func (t *Table) Unpivot(idColumns []string, varName, valueName string) (*Table, error) {
	ids, err := t.indexes(idColumns)
	if err != nil {
		return nil, err
	}
	isID := make(map[int]bool, len(ids))
	for _, j := range ids {
		isID[j] = true
	}

	cols := make([]string, 0, len(ids)+2)
	for _, j := range ids {
		cols = append(cols, t.columns[j])
	}
	cols = append(cols, varName, valueName)

	var rows [][]Cell
	for j, name := range t.columns {
		if isID[j] {
			continue
		}
		for _, r := range t.rows {
			if r[j].IsNull() {
				continue
			}
			out := make([]Cell, 0, len(cols))
			for _, k := range ids {
				out = append(out, r[k])
			}
			out = append(out, Text(name), r[j])
			rows = append(rows, out)
		}
	}
	return New(cols, rows)
}

// Unique returns the distinct non-null values of a column in first-seen order.
func (t *Table) Unique(column string) ([]Cell, error) {
	cells, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []Cell
	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		key := c.Kind().String() + ":" + c.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out, nil
}

// Records returns the rows as plain values, for JSON encoding.
func (t *Table) Records() [][]any {
	out := make([][]any, len(t.rows))
	for i, r := range t.rows {
		vals := make([]any, len(r))
		for j, c := range r {
			vals[j] = c.Interface()
		}
		out[i] = vals
	}
	return out
}
