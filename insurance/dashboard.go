/*
dashboard.go - Load-once dashboard state

PURPOSE:
  Runs the whole pipeline once: loaded tables -> derived views -> charts
  -> summary. The resulting Dashboard is never modified after Build
  returns, so HTTP handlers share it without locking.

PARTIAL FAILURE:
  Each tab depends on its own inputs. A tab whose input is absent or
  malformed is kept with its error and reported as unavailable; the other
  tab is unaffected.

SEE ALSO:
  - views.go: Derived views
  - charts.go: Chart builders
  - api/handlers.go: Serves the Dashboard
*/
package insurance

import (
	"errors"
	"fmt"
	"log"

	"github.com/warp/insurance-dashboard/chart"
	"github.com/warp/insurance-dashboard/loader"
)

// ErrUnavailable marks a tab that could not be built.
var ErrUnavailable = errors.New("chart unavailable")

// UnavailableError explains why a tab has no chart.
type UnavailableError struct {
	Tab string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Tab, ErrUnavailable, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// Sources are the loaded input files. Claims is only consulted when its
// Path is set.
type Sources struct {
	Home   loader.Result
	Auto   loader.Result
	Claims loader.Result
}

// Options control how views and charts are derived.
type Options struct {
	Columns        Columns
	Categories     Categories
	SplitByInsurer bool
	Colors         chart.ColorMap
	Currency       string
}

// DefaultOptions match the JSON exports.
func DefaultOptions() Options {
	return Options{
		Columns:    DefaultColumns(),
		Categories: DefaultCategories(),
		Currency:   "USD",
	}
}

// Tab is one dashboard tab and its chart.
type Tab struct {
	ID    string
	Label string
	Chart *chart.Chart
	Err   error
}

// Available reports whether the tab has a chart.
func (t Tab) Available() bool { return t.Err == nil && t.Chart != nil }

// Dashboard is the read-only result of one pipeline run.
type Dashboard struct {
	Tabs    []Tab
	Views   []View
	Summary Summary
}

// Build runs the pipeline over already-loaded sources.
func Build(src Sources, opts Options) *Dashboard {
	d := &Dashboard{Summary: Summary{Currency: opts.Currency}}

	home := Tab{ID: ChartHome, Label: "Home Insurance"}
	if views, c, err := buildHome(src, opts); err != nil {
		home.Err = &UnavailableError{Tab: ChartHome, Err: err}
	} else {
		home.Chart = c
		d.Views = append(d.Views, views.Views()...)
		d.Summary.Home = summarize(totalSeriesOf(c), opts.Currency)
	}

	auto := Tab{ID: ChartAuto, Label: "Auto Insurance"}
	if views, c, err := buildAuto(src, opts); err != nil {
		auto.Err = &UnavailableError{Tab: ChartAuto, Err: err}
	} else {
		auto.Chart = c
		d.Views = append(d.Views, views.Views()...)
		d.Summary.Auto = summarize(totalSeriesOf(c), opts.Currency)
		d.Summary.Auto.Claims = views.ClaimsByVehicle.Len()
	}

	d.Tabs = []Tab{home, auto}
	for _, t := range d.Tabs {
		if t.Available() {
			log.Printf("[Dashboard] Built %s chart: %d series", t.ID, t.Chart.SeriesCount())
		} else {
			log.Printf("[Dashboard] %v", t.Err)
		}
	}
	return d
}

func buildHome(src Sources, opts Options) (HomeViews, *chart.Chart, error) {
	if !src.Home.Ok() {
		return HomeViews{}, nil, missing("home", src.Home)
	}
	views, err := SplitHome(src.Home.Table, opts.Columns)
	if err != nil {
		return HomeViews{}, nil, err
	}
	c, err := HomeChart(views, opts.Columns, opts.SplitByInsurer)
	if err != nil {
		return HomeViews{}, nil, err
	}
	return views, c, nil
}

func buildAuto(src Sources, opts Options) (AutoViews, *chart.Chart, error) {
	if !src.Auto.Ok() {
		return AutoViews{}, nil, missing("auto", src.Auto)
	}
	claims := src.Claims.Table
	if src.Claims.Path != "" && !src.Claims.Ok() {
		return AutoViews{}, nil, missing("claims", src.Claims)
	}
	views, err := SplitAuto(src.Auto.Table, claims, opts.Columns, opts.Categories)
	if err != nil {
		return AutoViews{}, nil, err
	}
	c, err := AutoChart(views, opts.Columns, opts.Colors)
	if err != nil {
		return AutoViews{}, nil, err
	}
	return views, c, nil
}

// missing explains why an input has no table.
func missing(input string, r loader.Result) error {
	if r.Path == "" {
		return fmt.Errorf("no %s input configured: %w", input, loader.ErrNotFound)
	}
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("%s: %w", r.Path, loader.ErrNotFound)
}

// Tab returns the tab with the given ID.
func (d *Dashboard) Tab(id string) (Tab, bool) {
	for _, t := range d.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// View returns the derived view with the given name.
func (d *Dashboard) View(name string) (View, bool) {
	for _, v := range d.Views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}
