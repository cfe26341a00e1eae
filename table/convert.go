package table

import (
	"time"

	"github.com/shopspring/decimal"
)

// DecimalAt returns the amount in row i of column, failing with a CellError
// when the cell is not numeric.
func (t *Table) DecimalAt(i int, column string) (decimal.Decimal, error) {
	c, err := t.Cell(i, column)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, ok := c.Decimal()
	if !ok {
		return decimal.Decimal{}, &CellError{Column: column, Row: i, Value: c, Err: ErrNotNumeric}
	}
	return d, nil
}

// TimeAt returns the date in row i of column, failing with a CellError when
// the cell cannot be read as a date.
func (t *Table) TimeAt(i int, column string) (time.Time, error) {
	c, err := t.Cell(i, column)
	if err != nil {
		return time.Time{}, err
	}
	ts, ok := c.Time()
	if !ok {
		return time.Time{}, &CellError{Column: column, Row: i, Value: c, Err: ErrNotDate}
	}
	return ts, nil
}
