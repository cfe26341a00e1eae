package table_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insurance-dashboard/table"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func homeTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]string{"Date", "Insurer", "Total", "Dwelling", "Liability"},
		[][]table.Cell{
			{table.Text("2021-05-01"), table.Text("Acme"), table.Int(900), table.Int(250000), table.Int(100000)},
			{table.Text("2022-05-01"), table.Text("Acme"), table.Int(950), table.Int(260000), table.Null()},
			{table.Text("2023-05-01"), table.Text("Beta"), table.Int(1010), table.Int(280000), table.Int(300000)},
		},
	)
	require.NoError(t, err)
	return tbl
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNew_RejectsRaggedRows(t *testing.T) {
	_, err := table.New([]string{"A", "B"}, [][]table.Cell{{table.Int(1)}})
	assert.ErrorIs(t, err, table.ErrRaggedRow)
}

func TestNew_RejectsDuplicateColumns(t *testing.T) {
	_, err := table.New([]string{"A", "A"}, nil)
	assert.ErrorIs(t, err, table.ErrDuplicateColumn)
}

func TestIndex_FallsBackToCaseInsensitive(t *testing.T) {
	tbl := homeTable(t)
	assert.Equal(t, 0, tbl.Index("DATE"))
	assert.Equal(t, 2, tbl.Index("total"))
	assert.Equal(t, -1, tbl.Index("Premium"))
}

// =============================================================================
// SELECT / DROP
// =============================================================================

func TestSelectColumns_KeepsOrderAndRows(t *testing.T) {
	tbl := homeTable(t)

	out, err := tbl.SelectColumns("Total", "Date")
	require.NoError(t, err)

	assert.Equal(t, []string{"Total", "Date"}, out.Columns())
	assert.Equal(t, 3, out.Len())
	c, err := out.Cell(2, "Total")
	require.NoError(t, err)
	assert.Equal(t, "1010", c.String())
}

func TestSelectColumns_MissingColumn(t *testing.T) {
	_, err := homeTable(t).SelectColumns("Date", "Premium")

	var colErr *table.ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "Premium", colErr.Column)
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

func TestSelectAndDrop_PartitionColumns(t *testing.T) {
	// GIVEN: a home table with keys, one total and coverage columns
	// WHEN: selecting the premium columns and dropping the total
	// THEN: the two views only share the key columns
	tbl := homeTable(t)

	premiums, err := tbl.SelectColumns("Date", "Insurer", "Total")
	require.NoError(t, err)
	coverages, err := tbl.DropColumns("Total")
	require.NoError(t, err)

	shared := map[string]bool{}
	for _, p := range premiums.Columns() {
		for _, c := range coverages.Columns() {
			if p == c {
				shared[p] = true
			}
		}
	}
	assert.Equal(t, map[string]bool{"Date": true, "Insurer": true}, shared)
	assert.Equal(t, tbl.Width()+2, premiums.Width()+coverages.Width())
}

func TestDropColumns_DoesNotMutateSource(t *testing.T) {
	tbl := homeTable(t)
	_, err := tbl.DropColumns("Dwelling")
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Width())
}

// =============================================================================
// FILTER
// =============================================================================

func TestFilterRows_MatchesValue(t *testing.T) {
	out, err := homeTable(t).FilterRows("Insurer", "Acme")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())

	none, err := homeTable(t).FilterRows("Insurer", "Nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, none.Len())
	assert.Equal(t, 5, none.Width())
}

func TestFilterRows_MissingColumn(t *testing.T) {
	_, err := homeTable(t).FilterRows("Category", "Premium")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

// =============================================================================
// UNPIVOT
// =============================================================================

func TestUnpivot_DropsNullsAndCountsCells(t *testing.T) {
	tbl := table.MustNew(
		[]string{"Date", "Car A", "Car B", "Car C"},
		[][]table.Cell{
			{table.Text("2021-01-01"), table.Int(10), table.Int(20), table.Null()},
			{table.Text("2022-01-01"), table.Int(11), table.Null(), table.Null()},
			{table.Text("2023-01-01"), table.Null(), table.Null(), table.Int(30)},
		},
	)

	out, err := tbl.Unpivot([]string{"Date"}, "Vehicle", "Premium")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Vehicle", "Premium"}, out.Columns())
	assert.Equal(t, 4, out.Len(), "one row per non-null value cell")
	values, err := out.Column("Premium")
	require.NoError(t, err)
	for _, v := range values {
		assert.False(t, v.IsNull())
	}

	// value-column-major order
	vehicles, err := out.Column("Vehicle")
	require.NoError(t, err)
	var names []string
	for _, v := range vehicles {
		names = append(names, v.String())
	}
	assert.Equal(t, []string{"Car A", "Car A", "Car B", "Car C"}, names)
}

func TestUnpivot_NoValueColumns(t *testing.T) {
	tbl := table.MustNew([]string{"Date"}, [][]table.Cell{{table.Text("2021-01-01")}})
	out, err := tbl.Unpivot([]string{"Date"}, "Vehicle", "Premium")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

// =============================================================================
// UNIQUE / CONVERSION
// =============================================================================

func TestUnique_FirstSeenOrder(t *testing.T) {
	tbl := table.MustNew([]string{"Vehicle"}, [][]table.Cell{
		{table.Text("Sonata")}, {table.Text("Cruze")}, {table.Null()}, {table.Text("Sonata")}, {table.Text("Accord")},
	})
	got, err := tbl.Unique("Vehicle")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Sonata", got[0].String())
	assert.Equal(t, "Cruze", got[1].String())
	assert.Equal(t, "Accord", got[2].String())
}

func TestDecimalAt_NotNumeric(t *testing.T) {
	tbl := table.MustNew([]string{"Total"}, [][]table.Cell{{table.Text("n/a")}})
	_, err := tbl.DecimalAt(0, "Total")

	var cellErr *table.CellError
	require.ErrorAs(t, err, &cellErr)
	assert.Equal(t, 0, cellErr.Row)
	assert.ErrorIs(t, err, table.ErrNotNumeric)
}

func TestTimeAt_Formats(t *testing.T) {
	want := time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)
	tbl := table.MustNew([]string{"Date"}, [][]table.Cell{
		{table.Text("2021-05-01")},
		{table.Text("5/1/2021")},
		{table.Int(want.UnixMilli())},
		{table.Date(want)},
		{table.Text("someday")},
	})
	for i := 0; i < 4; i++ {
		got, err := tbl.TimeAt(i, "Date")
		require.NoError(t, err, "row %d", i)
		assert.True(t, want.Equal(got), "row %d: got %v", i, got)
	}
	_, err := tbl.TimeAt(4, "Date")
	assert.ErrorIs(t, err, table.ErrNotDate)
}

func TestTimeAt_SpreadsheetSerials(t *testing.T) {
	tbl := table.MustNew([]string{"Date"}, [][]table.Cell{
		{table.Int(45292)},
		{table.Float(44317.5)},
		{table.Int(1)},
	})
	cases := []time.Time{
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, time.May, 1, 12, 0, 0, 0, time.UTC),
		time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, want := range cases {
		got, err := tbl.TimeAt(i, "Date")
		require.NoError(t, err, "row %d", i)
		assert.True(t, want.Equal(got), "row %d: got %v", i, got)
	}
}

func TestParse_InfersKinds(t *testing.T) {
	assert.True(t, table.Parse("  ").IsNull())
	assert.True(t, table.Parse("NaN").IsNull())

	amount := table.Parse("$1,250.50")
	require.True(t, amount.IsNumber())
	d, _ := amount.Decimal()
	assert.True(t, decimal.RequireFromString("1250.5").Equal(d))

	assert.Equal(t, table.KindText, table.Parse("2020 Toyota Tacoma").Kind())
}

func TestCellEqual_NumbersByValue(t *testing.T) {
	assert.True(t, table.Float(10).Equal(table.Number(decimal.RequireFromString("10.00"))))
	assert.False(t, table.Int(10).Equal(table.Text("10")))
	assert.True(t, table.Null().Equal(table.Null()))
}
