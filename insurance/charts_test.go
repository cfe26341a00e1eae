package insurance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/insurance-dashboard/chart"
	"github.com/warp/insurance-dashboard/insurance"
	"github.com/warp/insurance-dashboard/table"
)

func seriesNames(p chart.Panel) []string {
	var out []string
	for _, s := range p.Series {
		out = append(out, s.Name)
	}
	return out
}

// =============================================================================
// HOME
// =============================================================================

func TestHomeChart_Combined(t *testing.T) {
	v, err := insurance.SplitHome(homeTable(t), cols)
	require.NoError(t, err)

	c, err := insurance.HomeChart(v, cols, false)
	require.NoError(t, err)

	require.Len(t, c.Panels, 2)
	assert.Equal(t, "Home Insurance Premiums and Coverages", c.Title)
	assert.Equal(t, "Premium/Coverage", c.LegendTitle)
	assert.Equal(t, 800, c.Height)
	assert.Equal(t, []string{"Premium"}, seriesNames(c.Panels[0]))
	assert.Equal(t, []string{"Dwelling", "Liability"}, seriesNames(c.Panels[1]))

	premium := c.Panels[0].Series[0]
	assert.Equal(t, chart.Circle, premium.Symbol)
	assert.Len(t, premium.Points, 3)
	assert.Equal(t, chart.Square, c.Panels[1].Series[0].Symbol)

	// The null liability in 2023 is a gap.
	assert.Len(t, c.Panels[1].Series[1].Points, 2)
}

func TestHomeChart_SplitByInsurer(t *testing.T) {
	v, err := insurance.SplitHome(homeTable(t), cols)
	require.NoError(t, err)

	c, err := insurance.HomeChart(v, cols, true)
	require.NoError(t, err)

	assert.Equal(t, "Insurer - Premium/Coverage", c.LegendTitle)
	assert.Equal(t, []string{"Acme", "Beta"}, seriesNames(c.Panels[0]))
	assert.Equal(t,
		[]string{"Acme - Dwelling", "Acme - Liability", "Beta - Dwelling", "Beta - Liability"},
		seriesNames(c.Panels[1]))
	assert.Len(t, c.Panels[0].Series[0].Points, 2)
}

func TestHomeChart_BadAmount(t *testing.T) {
	home := table.MustNew(
		[]string{"Date", "Insurer", "Total"},
		[][]table.Cell{{table.Text("2024-05-01"), table.Text("Acme"), table.Text("n/a")}},
	)
	v, err := insurance.SplitHome(home, cols)
	require.NoError(t, err)

	_, err = insurance.HomeChart(v, cols, false)
	assert.ErrorIs(t, err, table.ErrNotNumeric)
}

// =============================================================================
// AUTO
// =============================================================================

func TestAutoChart_SeriesAndClaims(t *testing.T) {
	// GIVEN premiums for A and B and a claim for A
	v, err := insurance.SplitAuto(autoTable(t), nil, cols, cats)
	require.NoError(t, err)

	// WHEN the auto chart is built with a color for A only
	c, err := insurance.AutoChart(v, cols, chart.ColorMap{"a": "red"})
	require.NoError(t, err)

	// THEN there is one premium series per vehicle, one claim series, and the total
	require.Len(t, c.Panels, 1)
	assert.Equal(t, []string{"A Premium", "B Premium", "A Claim", "Total Premium"}, seriesNames(c.Panels[0]))

	a, _ := c.Find("A Premium")
	assert.Equal(t, "red", a.Color)
	assert.Equal(t, chart.LinesMarkers, a.Mode)
	b, _ := c.Find("B Premium")
	assert.Empty(t, b.Color, "unmapped vehicles get an automatic color")

	// AND the claim is an x marker at y=0
	claim, ok := c.Find("A Claim")
	require.True(t, ok)
	assert.Equal(t, chart.Markers, claim.Mode)
	assert.Equal(t, chart.Cross, claim.Symbol)
	assert.Equal(t, 10, claim.MarkerSize)
	require.Len(t, claim.Points, 1)
	assert.True(t, claim.Points[0].Y.Equal(decimal.Zero))

	total, _ := c.Find("Total Premium")
	assert.Equal(t, "black", total.Color)
	require.Len(t, total.Points, 1)
	assert.True(t, total.Points[0].Y.Equal(decimal.NewFromInt(30)))
}

func TestAutoChart_BadClaimDate(t *testing.T) {
	auto := table.MustNew(
		[]string{"Date", "Total", "A"},
		[][]table.Cell{{table.Text("2024-01-01"), table.Int(10), table.Int(10)}},
	)
	claims := table.MustNew(
		[]string{"Date", "Vehicle"},
		[][]table.Cell{{table.Text("someday"), table.Text("A")}},
	)
	v, err := insurance.SplitAuto(auto, claims, cols, cats)
	require.NoError(t, err)

	_, err = insurance.AutoChart(v, cols, nil)
	assert.ErrorIs(t, err, table.ErrNotDate)
}

func TestAutoChart_ClaimWithoutVehicle(t *testing.T) {
	auto := table.MustNew(
		[]string{"Date", "Total", "A"},
		[][]table.Cell{{table.Text("2024-01-01"), table.Int(10), table.Int(10)}},
	)
	claims := table.MustNew(
		[]string{"Date", "Vehicle"},
		[][]table.Cell{
			{table.Text("2024-02-01"), table.Text("A")},
			{table.Text("2024-03-01"), table.Null()},
		},
	)
	v, err := insurance.SplitAuto(auto, claims, cols, cats)
	require.NoError(t, err)

	c, err := insurance.AutoChart(v, cols, chart.ColorMap{"A": "red"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A Premium", "A Claim", "Unknown Claim", "Total Premium"}, seriesNames(c.Panels[0]))
	unknown, _ := c.Find("Unknown Claim")
	assert.Equal(t, chart.Markers, unknown.Mode)
	assert.Equal(t, chart.Cross, unknown.Symbol)
	assert.Empty(t, unknown.Color)
	require.Len(t, unknown.Points, 1)
	assert.True(t, unknown.Points[0].Y.Equal(decimal.Zero))
}
