package insurance

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/insurance-dashboard/chart"
	"github.com/warp/insurance-dashboard/table"
)

// Chart IDs, which double as tab IDs.
const (
	ChartHome = "home"
	ChartAuto = "auto"
)

const (
	chartHeight  = 800
	hoverMode    = "x unified"
	claimMarker  = 10
	totalColor   = "black"
	totalSeries  = "Total Premium"
	premiumTrace = "Premium"
	unknownClaim = "Unknown Claim"
)

// HomeChart stacks premiums above coverages. With split set, every insurer
// gets its own premium series and its own set of coverage series.
func HomeChart(v HomeViews, cols Columns, split bool) (*chart.Chart, error) {
	premiumPanel := chart.Panel{Title: "Home Insurance Premiums", YTitle: "Amount"}
	coveragePanel := chart.Panel{Title: "Home Insurance Coverages", YTitle: "Amount"}
	coverages := v.CoverageColumns(cols)

	if split {
		insurers, err := v.Premiums.Unique(cols.Insurer)
		if err != nil {
			return nil, err
		}
		for _, ins := range insurers {
			rows, err := v.Premiums.FilterRows(cols.Insurer, ins.String())
			if err != nil {
				return nil, err
			}
			pts, err := points(rows, cols.Date, cols.HomeTotal)
			if err != nil {
				return nil, err
			}
			premiumPanel.Series = append(premiumPanel.Series, chart.Series{
				Name: ins.String(), Mode: chart.LinesMarkers, Symbol: chart.Circle, Points: pts,
			})
		}

		insurers, err = v.Coverages.Unique(cols.Insurer)
		if err != nil {
			return nil, err
		}
		for _, ins := range insurers {
			rows, err := v.Coverages.FilterRows(cols.Insurer, ins.String())
			if err != nil {
				return nil, err
			}
			for _, col := range coverages {
				pts, err := points(rows, cols.Date, col)
				if err != nil {
					return nil, err
				}
				coveragePanel.Series = append(coveragePanel.Series, chart.Series{
					Name:   fmt.Sprintf("%s - %s", ins.String(), col),
					Mode:   chart.LinesMarkers,
					Symbol: chart.Square,
					Points: pts,
				})
			}
		}
	} else {
		pts, err := points(v.Premiums, cols.Date, cols.HomeTotal)
		if err != nil {
			return nil, err
		}
		premiumPanel.Series = []chart.Series{{
			Name: premiumTrace, Mode: chart.LinesMarkers, Symbol: chart.Circle, Points: pts,
		}}
		for _, col := range coverages {
			pts, err := points(v.Coverages, cols.Date, col)
			if err != nil {
				return nil, err
			}
			coveragePanel.Series = append(coveragePanel.Series, chart.Series{
				Name: col, Mode: chart.LinesMarkers, Symbol: chart.Square, Points: pts,
			})
		}
	}

	legend := "Premium/Coverage"
	if split {
		legend = "Insurer - Premium/Coverage"
	}
	return &chart.Chart{
		ID:          ChartHome,
		Title:       "Home Insurance Premiums and Coverages",
		XTitle:      "Date",
		LegendTitle: legend,
		HoverMode:   hoverMode,
		Height:      chartHeight,
		Panels:      []chart.Panel{premiumPanel, coveragePanel},
	}, nil
}

// AutoChart draws one premium line per vehicle, one claim marker series per
// vehicle pinned at zero, and the total premium in black.
func AutoChart(v AutoViews, cols Columns, colors chart.ColorMap) (*chart.Chart, error) {
	panel := chart.Panel{YTitle: "Premium"}

	vehicles, err := v.PremiumsByVehicle.Unique(cols.Vehicle)
	if err != nil {
		return nil, err
	}
	for _, veh := range vehicles {
		rows, err := v.PremiumsByVehicle.FilterRows(cols.Vehicle, veh.String())
		if err != nil {
			return nil, err
		}
		pts, err := points(rows, cols.Date, cols.Premium)
		if err != nil {
			return nil, err
		}
		panel.Series = append(panel.Series, chart.Series{
			Name:   veh.String() + " Premium",
			Mode:   chart.LinesMarkers,
			Color:  colors.Lookup(veh.String()),
			Points: pts,
		})
	}

	claimed, err := v.ClaimsByVehicle.Unique(cols.Vehicle)
	if err != nil {
		return nil, err
	}
	for _, veh := range claimed {
		rows, err := v.ClaimsByVehicle.FilterRows(cols.Vehicle, veh.String())
		if err != nil {
			return nil, err
		}
		pts, err := zeroPoints(rows, cols.Date)
		if err != nil {
			return nil, err
		}
		panel.Series = append(panel.Series, chart.Series{
			Name:       veh.String() + " Claim",
			Mode:       chart.Markers,
			Symbol:     chart.Cross,
			MarkerSize: claimMarker,
			Color:      colors.Lookup(veh.String()),
			Points:     pts,
		})
	}

	// Claims without a vehicle still get a marker.
	if err := requireColumns(v.ClaimsByVehicle, cols.Vehicle); err != nil {
		return nil, err
	}
	unknown := v.ClaimsByVehicle.Filter(func(r table.Row) bool { return r.Get(cols.Vehicle).IsNull() })
	if unknown.Len() > 0 {
		pts, err := zeroPoints(unknown, cols.Date)
		if err != nil {
			return nil, err
		}
		panel.Series = append(panel.Series, chart.Series{
			Name:       unknownClaim,
			Mode:       chart.Markers,
			Symbol:     chart.Cross,
			MarkerSize: claimMarker,
			Points:     pts,
		})
	}

	total, err := points(v.TotalPremiums, cols.Date, cols.Total)
	if err != nil {
		return nil, err
	}
	panel.Series = append(panel.Series, chart.Series{
		Name:   totalSeries,
		Mode:   chart.LinesMarkers,
		Color:  totalColor,
		Points: total,
	})

	return &chart.Chart{
		ID:          ChartAuto,
		Title:       "Auto Insurance",
		XTitle:      "Date",
		LegendTitle: "Legend",
		HoverMode:   hoverMode,
		Height:      chartHeight,
		Panels:      []chart.Panel{panel},
	}, nil
}

// points reads (date, amount) pairs in row order. Rows with a null amount
// are gaps and are skipped.
func points(t *table.Table, xCol, yCol string) ([]chart.Point, error) {
	if err := requireColumns(t, xCol, yCol); err != nil {
		return nil, err
	}
	var out []chart.Point
	for i := 0; i < t.Len(); i++ {
		if c, _ := t.Cell(i, yCol); c.IsNull() {
			continue
		}
		y, err := t.DecimalAt(i, yCol)
		if err != nil {
			return nil, err
		}
		x, err := t.TimeAt(i, xCol)
		if err != nil {
			return nil, err
		}
		out = append(out, chart.Point{X: x, Y: y})
	}
	return out, nil
}

func requireColumns(t *table.Table, names ...string) error {
	for _, n := range names {
		if _, err := t.Column(n); err != nil {
			return err
		}
	}
	return nil
}

// zeroPoints places one point at y=0 per row, for event markers.
func zeroPoints(t *table.Table, xCol string) ([]chart.Point, error) {
	if err := requireColumns(t, xCol); err != nil {
		return nil, err
	}
	out := make([]chart.Point, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		x, err := t.TimeAt(i, xCol)
		if err != nil {
			return nil, err
		}
		out = append(out, chart.Point{X: x, Y: decimal.Zero})
	}
	return out, nil
}
