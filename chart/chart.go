/*
Package chart is the renderer-neutral chart model.

PURPOSE:
  Builders describe a chart once (panels, series, points, styling) and the
  model is then encoded for the browser (Plotly figure JSON, see plotly.go)
  or rendered server side (PNG, see png.go).

MODEL:
  Chart   title, legend title, hover mode, height, stacked panels
  Panel   subplot with its own y-axis; all panels share the date x-axis
  Series  named sequence of (date, amount) points with mode/marker/color
*/
package chart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects how a series is drawn.
type Mode string

const (
	LinesMarkers Mode = "lines+markers"
	Markers      Mode = "markers"
)

// Symbol is the marker shape.
type Symbol string

const (
	Circle Symbol = "circle"
	Square Symbol = "square"
	Cross  Symbol = "x"
)

// Chart is a titled stack of panels sharing one x-axis.
type Chart struct {
	ID          string
	Title       string
	XTitle      string
	LegendTitle string
	HoverMode   string
	Height      int
	Panels      []Panel
}

// Panel is one subplot.
type Panel struct {
	Title  string
	YTitle string
	Series []Series
}

// Series is one trace. An empty Color lets the renderer pick.
type Series struct {
	Name       string
	Mode       Mode
	Symbol     Symbol
	MarkerSize int
	Color      string
	Points     []Point
}

// Point is a single (date, amount) sample.
type Point struct {
	X time.Time
	Y decimal.Decimal
}

// SeriesCount returns the number of series across all panels.
func (c *Chart) SeriesCount() int {
	n := 0
	for _, p := range c.Panels {
		n += len(p.Series)
	}
	return n
}

// Find returns the first series with the given name.
func (c *Chart) Find(name string) (Series, bool) {
	for _, p := range c.Panels {
		for _, s := range p.Series {
			if s.Name == name {
				return s, true
			}
		}
	}
	return Series{}, false
}
