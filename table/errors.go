/*
errors.go - Error types for table operations

PURPOSE:
  All table errors in one place. Callers branch with errors.Is on the
  sentinels; the structured errors carry the column and row involved.

USAGE:

    if errors.Is(err, table.ErrColumnNotFound) {
        // input file is missing an expected column
    }

SEE ALSO:
  - table.go: Operations returning these errors
  - insurance/views.go: Wraps these with view context
*/
package table

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrColumnNotFound is returned when an operation names a column the table lacks.
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn is returned when a table would end up with two columns of the same name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrRaggedRow is returned when a row does not have one cell per column.
	ErrRaggedRow = errors.New("row length does not match columns")

	// ErrNotNumeric is returned when a cell expected to hold an amount does not.
	ErrNotNumeric = errors.New("value is not numeric")

	// ErrNotDate is returned when a cell expected to hold a date does not.
	ErrNotDate = errors.New("value is not a date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ColumnError names the missing column and what the table had instead.
type ColumnError struct {
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found (have %v)", e.Column, e.Available)
}

func (e *ColumnError) Unwrap() error {
	return ErrColumnNotFound
}

// CellError reports a cell that could not be interpreted as the required kind.
type CellError struct {
	Column string
	Row    int
	Value  Cell
	Err    error // ErrNotNumeric or ErrNotDate
}

func (e *CellError) Error() string {
	return fmt.Sprintf("column %q row %d: %v: %s", e.Column, e.Row, e.Err, e.Value.Quote())
}

func (e *CellError) Unwrap() error {
	return e.Err
}
