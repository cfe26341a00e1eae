package loader_test

import (
	"bytes"
	"context"
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insurance-dashboard/loader"
	"github.com/warp/insurance-dashboard/table"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

// =============================================================================
// JSON
// =============================================================================

func TestParseJSON_RecordsOrientKeepsKeyOrder(t *testing.T) {
	tbl, err := loader.ParseJSON([]byte(`[
		{"Date": "2021-05-01", "Insurer": "Acme", "Total": 900, "Dwelling": 250000},
		{"Date": "2022-05-01", "Insurer": "Acme", "Total": 950, "Dwelling": null, "Other Structures": 25000}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Insurer", "Total", "Dwelling", "Other Structures"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())

	other, err := tbl.Cell(0, "Other Structures")
	require.NoError(t, err)
	assert.True(t, other.IsNull(), "absent keys are null")

	dwelling, err := tbl.Cell(1, "Dwelling")
	require.NoError(t, err)
	assert.True(t, dwelling.IsNull())
}

func TestParseJSON_ColumnsOrient(t *testing.T) {
	tbl, err := loader.ParseJSON([]byte(`{
		"Date": {"0": 1619827200000, "1": 1651363200000},
		"Total": {"0": 900, "1": 950.5}
	}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Total"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())
	ts, err := tbl.TimeAt(0, "Date")
	require.NoError(t, err)
	assert.Equal(t, "2021-05-01", ts.Format("2006-01-02"))
	total, err := tbl.DecimalAt(1, "Total")
	require.NoError(t, err)
	assert.Equal(t, "950.5", total.String())
}

func TestParseJSON_SplitOrient(t *testing.T) {
	tbl, err := loader.ParseJSON([]byte(`{
		"columns": ["Date", "Vehicle"],
		"index": [0, 1],
		"data": [["2021-03-04", "2012 Chevy Cruze"], ["2022-07-09", "2017 Hyundai Sonata"]]
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Vehicle"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
}

func TestParseJSON_Malformed(t *testing.T) {
	for name, doc := range map[string]string{
		"truncated":    `[{"Date": "2021-01-01"`,
		"scalar":       `42`,
		"nested value": `[{"Date": {"y": 2021}}]`,
		"trailing":     `[] []`,
		"empty":        ``,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := loader.ParseJSON([]byte(doc))
			assert.Error(t, err)
		})
	}
}

// =============================================================================
// LOAD / READ
// =============================================================================

func TestLoad_MissingFile(t *testing.T) {
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "home.json"))

	var nf *loader.NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, loader.ErrNotFound)
}

func TestRead_MissingFileIsLoggedNotRaised(t *testing.T) {
	// GIVEN: a path that does not exist
	// WHEN: reading it at startup
	// THEN: the result is absent, the error is carried and logged
	logs := captureLog(t)
	path := filepath.Join(t.TempDir(), "auto.json")

	res := loader.Read(context.Background(), path)

	assert.False(t, res.Ok())
	assert.Nil(t, res.Table)
	assert.ErrorIs(t, res.Err, loader.ErrNotFound)
	assert.Contains(t, logs.String(), "[Loader] Failed to load")
	assert.Contains(t, logs.String(), path)
}

func TestLoad_MalformedJSONIsParseError(t *testing.T) {
	path := writeFile(t, "home.json", `{"Date": [`)
	_, err := loader.Load(context.Background(), path)

	var pe *loader.ParseError
	assert.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, loader.ErrParse)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "home.txt", "Date,Total\n")
	_, err := loader.Load(context.Background(), path)
	assert.ErrorIs(t, err, loader.ErrParse)
	assert.ErrorIs(t, err, loader.ErrUnsupportedFormat)
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "claims.csv", "DATE,VEHICLE\n\n2021-03-04,2012 CHEVY CRUZE\n2022-07-09,2017 HYUNDAI SONATA\n")
	tbl, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"DATE", "VEHICLE"}, tbl.Columns())
	assert.Equal(t, 2, tbl.Len())
}

func TestLoad_Spreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"DATE", "INSURER", "PREMIUM", "DWELLING"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"2021-05-01", "Acme", 900, 250000}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"2022-05-01", "Acme", 950}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"DATE", "INSURER", "PREMIUM", "DWELLING"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())
	premium, err := tbl.DecimalAt(1, "PREMIUM")
	require.NoError(t, err)
	assert.Equal(t, "950", premium.String())
	dwelling, err := tbl.Cell(1, "DWELLING")
	require.NoError(t, err)
	assert.True(t, dwelling.IsNull(), "short rows are padded with nulls")
}

func TestLoad_SpreadsheetDateCells(t *testing.T) {
	// GIVEN date cells in the default time format, a custom format, and a
	// General-formatted serial, next to a currency-formatted amount
	want := time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "home.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"DATE", "PREMIUM"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{want, 1250.5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{want.AddDate(1, 0, 0), 1300}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{44317, 1400}))

	custom := "d-mmm-yy"
	dayMonth, err := f.NewStyle(&excelize.Style{CustomNumFmt: &custom})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A3", "A3", dayMonth))
	currency, err := f.NewStyle(&excelize.Style{NumFmt: 7})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B4", currency))

	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	// WHEN the workbook is loaded
	tbl, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	// THEN every date cell reads back as its date
	for i, w := range []time.Time{want, want.AddDate(1, 0, 0), want} {
		got, err := tbl.TimeAt(i, "DATE")
		require.NoError(t, err, "row %d", i)
		assert.True(t, w.Equal(got), "row %d: got %v", i, got)
	}
	c, err := tbl.Cell(0, "DATE")
	require.NoError(t, err)
	assert.Equal(t, table.KindDate, c.Kind())

	// AND amounts keep their value rather than their display text
	premium, err := tbl.DecimalAt(0, "PREMIUM")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", premium.String())
}

func TestLoad_SpreadsheetUnknownSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := loader.Load(context.Background(), path+"#Claims")
	assert.ErrorIs(t, err, loader.ErrParse)
}

func TestLoad_SQLiteTableFromFragmentOrBaseName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE auto ("Date" TEXT, "Total" INTEGER);
		INSERT INTO auto VALUES ('2021-01-01', 900);
		CREATE TABLE claims ("Date" TEXT, "Vehicle" TEXT);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	auto, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, auto.Len())

	claims, err := loader.Load(context.Background(), path+"#claims")
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Vehicle"}, claims.Columns())
	assert.Equal(t, 0, claims.Len())
}
