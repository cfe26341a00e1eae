package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/warp/insurance-dashboard/table"
	"github.com/xuri/excelize/v2"
)

// cellFunc turns the raw text at (row, col) of a grid into a cell. Both
// indexes are zero-based positions in the grid.
type cellFunc func(row, col int, raw string) (table.Cell, error)

func parseCell(_, _ int, raw string) (table.Cell, error) { return table.Parse(raw), nil }

// readSpreadsheet reads one worksheet. Values are read raw; cells whose
// number format is a date format become dates, everything else is parsed
// like CSV text.
func readSpreadsheet(path, sheet string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, err
	}
	dates := &dateStyles{f: f, sheet: sheet, byStyle: make(map[int]bool)}
	date1904 := props.Date1904 != nil && *props.Date1904

	return fromGrid(rows, func(row, col int, raw string) (table.Cell, error) {
		if strings.TrimSpace(raw) == "" {
			return table.Null(), nil
		}
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return table.Parse(raw), nil
		}
		isDate, err := dates.at(row, col)
		if err != nil {
			return table.Cell{}, err
		}
		if !isDate {
			return table.Parse(raw), nil
		}
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return table.Cell{}, fmt.Errorf("cell %s: %w", cellName(row, col), err)
		}
		return table.Date(t), nil
	})
}

// dateStyles remembers which cell styles carry a date number format.
type dateStyles struct {
	f       *excelize.File
	sheet   string
	byStyle map[int]bool
}

func (d *dateStyles) at(row, col int) (bool, error) {
	axis := cellName(row, col)
	idx, err := d.f.GetCellStyle(d.sheet, axis)
	if err != nil {
		return false, fmt.Errorf("cell %s: %w", axis, err)
	}
	if isDate, ok := d.byStyle[idx]; ok {
		return isDate, nil
	}
	style, err := d.f.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("cell %s: %w", axis, err)
	}
	isDate := style.CustomNumFmt != nil && isDateFormat(*style.CustomNumFmt) ||
		style.CustomNumFmt == nil && isBuiltinDateFormat(style.NumFmt)
	d.byStyle[idx] = isDate
	return isDate, nil
}

func cellName(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

// isBuiltinDateFormat covers the built-in formats 14-22: m/d/yy through
// m/d/yy h:mm.
func isBuiltinDateFormat(id int) bool { return id >= 14 && id <= 22 }

// isDateFormat reports whether a custom format code renders a date, i.e. has
// a day or year token outside quoted text and [..] sections.
func isDateFormat(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	if s == "general" {
		return false
	}
	return strings.ContainsAny(s, "yd") || strings.Contains(s, "mmm")
}

func readCSVFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromGrid(rows, parseCell)
}

// fromGrid treats the first non-empty row as the header. Short rows are
// padded with nulls, blank rows are skipped, blank headers are named the way
// pandas names them.
func fromGrid(grid [][]string, cell cellFunc) (*table.Table, error) {
	start := 0
	for start < len(grid) && blank(grid[start]) {
		start++
	}
	if start == len(grid) {
		return nil, errors.New("no header row")
	}

	header := grid[start]
	columns := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = h
	}

	var rows [][]table.Cell
	for n, raw := range grid[start+1:] {
		if blank(raw) {
			continue
		}
		at := start + 1 + n
		if len(raw) > len(columns) {
			if !blank(raw[len(columns):]) {
				return nil, fmt.Errorf("row %d has %d cells but header has %d", at+1, len(raw), len(columns))
			}
			raw = raw[:len(columns)]
		}
		row := make([]table.Cell, len(columns))
		for i, v := range raw {
			c, err := cell(at, i, v)
			if err != nil {
				return nil, err
			}
			row[i] = c
		}
		rows = append(rows, row)
	}
	return table.New(columns, rows)
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
