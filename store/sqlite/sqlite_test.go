package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insurance-dashboard/store/sqlite"
	"github.com/warp/insurance-dashboard/table"
)

// writeExport builds a small export file the way an external tool would.
func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "insurance.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE auto (
			"Date" TEXT,
			"Insurer" TEXT,
			"Category" TEXT,
			"2012 Chevy Cruze" REAL,
			"Vehicle" TEXT,
			"Total" INTEGER
		);
		INSERT INTO auto VALUES ('2021-01-01', 'Acme', 'Premium', 410.5, NULL, 900);
		INSERT INTO auto VALUES ('2021-03-04', 'Acme', 'Claim', NULL, '2012 Chevy Cruze', NULL);
		CREATE TABLE home ("Date" TEXT, "Total" INTEGER);
	`)
	require.NoError(t, err)
	return path
}

func TestReadTable_MapsTypes(t *testing.T) {
	src, err := sqlite.Open(writeExport(t))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	tbl, err := src.ReadTable(context.Background(), "auto")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Insurer", "Category", "2012 Chevy Cruze", "Vehicle", "Total"}, tbl.Columns())
	require.Equal(t, 2, tbl.Len())

	premium, err := tbl.Cell(0, "2012 Chevy Cruze")
	require.NoError(t, err)
	assert.Equal(t, table.KindNumber, premium.Kind())
	assert.Equal(t, "410.5", premium.String())

	vehicle, err := tbl.Cell(0, "Vehicle")
	require.NoError(t, err)
	assert.True(t, vehicle.IsNull())

	total, err := tbl.Cell(0, "Total")
	require.NoError(t, err)
	assert.Equal(t, "900", total.String())
}

func TestTables_Sorted(t *testing.T) {
	src, err := sqlite.Open(writeExport(t))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	names, err := src.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"auto", "home"}, names)
}

func TestReadTable_UnknownTable(t *testing.T) {
	src, err := sqlite.Open(writeExport(t))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	_, err = src.ReadTable(context.Background(), "claims")
	assert.ErrorIs(t, err, sqlite.ErrTableNotFound)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := sqlite.Open(filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}
