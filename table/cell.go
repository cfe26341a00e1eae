package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CELL - A single typed value in a table
// =============================================================================

// Kind identifies what a Cell holds.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// Cell is an immutable table value. The zero Cell is null.
type Cell struct {
	kind Kind
	text string
	num  decimal.Decimal
	date time.Time
}

// Null returns the null cell.
func Null() Cell { return Cell{} }

// Text returns a text cell.
func Text(s string) Cell { return Cell{kind: KindText, text: s} }

// Number returns a numeric cell.
func Number(d decimal.Decimal) Cell { return Cell{kind: KindNumber, num: d} }

// Int returns a numeric cell from an int.
func Int(n int64) Cell { return Number(decimal.NewFromInt(n)) }

// Float returns a numeric cell from a float.
func Float(f float64) Cell { return Number(decimal.NewFromFloat(f)) }

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{kind: KindDate, date: t} }

// Parse infers a cell from raw text, as found in spreadsheet and CSV exports.
// Empty text is null; amounts like "$1,250.00" become numbers. Dates stay text
// and are interpreted on demand by Time.
func Parse(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return Null()
	}
	if d, ok := parseAmount(s); ok {
		return Number(d)
	}
	return Text(s)
}

func parseAmount(s string) (decimal.Decimal, bool) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if clean == "" || clean == "-" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func (c Cell) Kind() Kind     { return c.kind }
func (c Cell) IsNull() bool   { return c.kind == KindNull }
func (c Cell) IsNumber() bool { return c.kind == KindNumber }

// Decimal returns the numeric value of the cell. Text that parses as an
// amount is accepted.
func (c Cell) Decimal() (decimal.Decimal, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, true
	case KindText:
		return parseAmount(c.text)
	default:
		return decimal.Decimal{}, false
	}
}

// dateLayouts are the formats seen in policy exports: ISO dates, pandas
// timestamps, and the US short forms spreadsheets render.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// maxSerial is 9999-12-31 as a spreadsheet date serial. Epoch milliseconds
// below it would all fall within the first hour of 1970.
var maxSerial = decimal.NewFromInt(2958466)

// serialTime converts a spreadsheet date serial (days since 1899-12-30, with
// the 1900 leap-year quirk below serial 61) to a time.
func serialTime(d decimal.Decimal) time.Time {
	base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	days := d.IntPart()
	if days < 61 {
		base = base.AddDate(0, 0, 1)
	}
	frac := d.Sub(decimal.NewFromInt(days)).Mul(decimal.NewFromInt(int64(24 * time.Hour)))
	return base.AddDate(0, 0, int(days)).Add(time.Duration(frac.IntPart())).Round(time.Second)
}

// Time interprets the cell as a date. Large whole numbers are epoch
// milliseconds, which is how pandas writes datetime columns to JSON. Small
// positive numbers are spreadsheet date serials from cells left in the
// General format.
func (c Cell) Time() (time.Time, bool) {
	switch c.kind {
	case KindDate:
		return c.date, true
	case KindNumber:
		if c.num.IsPositive() && c.num.LessThan(maxSerial) {
			return serialTime(c.num), true
		}
		if !c.num.Equal(c.num.Truncate(0)) {
			return time.Time{}, false
		}
		return time.UnixMilli(c.num.IntPart()).UTC(), true
	case KindText:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, c.text); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// String renders the cell as text. Null renders as the empty string.
func (c Cell) String() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		return c.num.String()
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal reports whether two cells hold the same value. Numbers compare by
// value, so 10 and 10.00 are equal.
func (c Cell) Equal(o Cell) bool {
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindNumber:
		return c.num.Equal(o.num)
	case KindDate:
		return c.date.Equal(o.date)
	case KindText:
		return c.text == o.text
	default:
		return true
	}
}

// Interface returns the cell as a plain JSON-friendly value.
func (c Cell) Interface() any {
	switch c.kind {
	case KindText:
		return c.text
	case KindNumber:
		f, _ := c.num.Float64()
		return f
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return nil
	}
}

// Quote is used by error messages.
func (c Cell) Quote() string { return strconv.Quote(c.String()) }
