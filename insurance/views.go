/*
views.go - Derived views over home and auto policy tables

PURPOSE:
  Turns the raw export tables into the narrow views the charts read. Every
  view is a read-only projection built with table operations; nothing here
  mutates its input.

HOME:
  home-premiums    Date, Insurer, <home total>
  home-coverages   every column except the home total

AUTO:
  auto-total-premiums       Date, Total             (Premium rows)
  auto-premiums-by-vehicle  Date, Vehicle, Premium  (long form, nulls dropped)
  auto-claims-by-vehicle    Date, Vehicle           (one row per claim)

  Claims come from a separate claims table when one is given, otherwise
  from the auto table's Claim rows. An auto table without a Category column
  is all premium rows.

SEE ALSO:
  - table/table.go: Operations used here
  - charts.go: Consumers of these views
*/
package insurance

import (
	"fmt"

	"github.com/warp/insurance-dashboard/table"
)

// View names, as exposed by the API.
const (
	ViewHomePremiums          = "home-premiums"
	ViewHomeCoverages         = "home-coverages"
	ViewAutoTotalPremiums     = "auto-total-premiums"
	ViewAutoPremiumsByVehicle = "auto-premiums-by-vehicle"
	ViewAutoClaimsByVehicle   = "auto-claims-by-vehicle"
)

// Columns names the columns of the input tables and of the long-form views.
type Columns struct {
	Date      string
	Insurer   string
	Total     string // auto total premium
	HomeTotal string // home total premium
	Category  string
	Vehicle   string
	Premium   string // value column of the per-vehicle view
}

// DefaultColumns matches the JSON exports.
func DefaultColumns() Columns {
	return Columns{
		Date:      "Date",
		Insurer:   "Insurer",
		Total:     "Total",
		HomeTotal: "Total",
		Category:  "Category",
		Vehicle:   "Vehicle",
		Premium:   "Premium",
	}
}

// Categories are the Category values that tell auto rows apart.
type Categories struct {
	Premium string
	Claim   string
}

// DefaultCategories returns the Premium/Claim labels.
func DefaultCategories() Categories {
	return Categories{Premium: "Premium", Claim: "Claim"}
}

// =============================================================================
// HOME
// =============================================================================

// HomeViews are the projections of the home table.
type HomeViews struct {
	Premiums  *table.Table
	Coverages *table.Table
}

// SplitHome separates the premium column from the coverage columns.
func SplitHome(home *table.Table, cols Columns) (HomeViews, error) {
	premiums, err := home.SelectColumns(cols.Date, cols.Insurer, cols.HomeTotal)
	if err != nil {
		return HomeViews{}, fmt.Errorf("home premiums: %w", err)
	}
	coverages, err := home.DropColumns(cols.HomeTotal)
	if err != nil {
		return HomeViews{}, fmt.Errorf("home coverages: %w", err)
	}
	return HomeViews{Premiums: premiums, Coverages: coverages}, nil
}

// CoverageColumns lists the coverage columns of the coverages view, i.e.
// every column but the Date and Insurer keys, in table order.
func (v HomeViews) CoverageColumns(cols Columns) []string {
	keys := map[int]bool{
		v.Coverages.Index(cols.Date):    true,
		v.Coverages.Index(cols.Insurer): true,
	}
	var out []string
	for i, c := range v.Coverages.Columns() {
		if !keys[i] {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// AUTO
// =============================================================================

// AutoViews are the projections of the auto table (and claims table).
type AutoViews struct {
	TotalPremiums     *table.Table
	PremiumsByVehicle *table.Table
	ClaimsByVehicle   *table.Table
}

// SplitAuto derives the auto views. claims may be nil, in which case claims
// are the auto table's Claim rows.
func SplitAuto(auto, claims *table.Table, cols Columns, cats Categories) (AutoViews, error) {
	premiums := auto
	if auto.HasColumn(cols.Category) {
		filtered, err := auto.FilterRows(cols.Category, cats.Premium)
		if err != nil {
			return AutoViews{}, fmt.Errorf("auto premiums: %w", err)
		}
		if premiums, err = filtered.DropColumns(cols.Category); err != nil {
			return AutoViews{}, fmt.Errorf("auto premiums: %w", err)
		}
	}

	total, err := premiums.SelectColumns(cols.Date, cols.Total)
	if err != nil {
		return AutoViews{}, fmt.Errorf("auto total premiums: %w", err)
	}

	// Everything left after dropping the non-vehicle columns is a vehicle.
	drop := []string{cols.Total}
	for _, c := range []string{cols.Insurer, cols.Vehicle} {
		if premiums.HasColumn(c) {
			drop = append(drop, c)
		}
	}
	wide, err := premiums.DropColumns(drop...)
	if err != nil {
		return AutoViews{}, fmt.Errorf("auto premiums by vehicle: %w", err)
	}
	byVehicle, err := wide.Unpivot([]string{cols.Date}, cols.Vehicle, cols.Premium)
	if err != nil {
		return AutoViews{}, fmt.Errorf("auto premiums by vehicle: %w", err)
	}

	claimsView, err := claimRows(auto, claims, cols, cats)
	if err != nil {
		return AutoViews{}, fmt.Errorf("auto claims: %w", err)
	}

	return AutoViews{
		TotalPremiums:     total,
		PremiumsByVehicle: byVehicle,
		ClaimsByVehicle:   claimsView,
	}, nil
}

func claimRows(auto, claims *table.Table, cols Columns, cats Categories) (*table.Table, error) {
	src := claims
	if src == nil {
		if !auto.HasColumn(cols.Category) {
			return table.New([]string{cols.Date, cols.Vehicle}, nil)
		}
		var err error
		if src, err = auto.FilterRows(cols.Category, cats.Claim); err != nil {
			return nil, err
		}
	}
	return src.SelectColumns(cols.Date, cols.Vehicle)
}

// Views lists every derived view by name, in a fixed order.
func (v HomeViews) Views() []View {
	return []View{
		{Name: ViewHomePremiums, Table: v.Premiums},
		{Name: ViewHomeCoverages, Table: v.Coverages},
	}
}

// Views lists every derived view by name, in a fixed order.
func (v AutoViews) Views() []View {
	return []View{
		{Name: ViewAutoTotalPremiums, Table: v.TotalPremiums},
		{Name: ViewAutoPremiumsByVehicle, Table: v.PremiumsByVehicle},
		{Name: ViewAutoClaimsByVehicle, Table: v.ClaimsByVehicle},
	}
}

// View is a named derived table.
type View struct {
	Name  string
	Table *table.Table
}
