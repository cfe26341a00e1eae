package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("chart has no data points")

// DefaultWidth is the PNG width used when none is given.
const DefaultWidth = 1200

// RenderPNG draws the chart as a single PNG, one go-chart image per panel
// stacked top to bottom. Panels without points are left blank.
func RenderPNG(c *Chart, w io.Writer, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	height := c.Height
	if height <= 0 {
		height = 800
	}
	if len(c.Panels) == 0 || !hasPoints(c) {
		return ErrNoData
	}
	panelHeight := height / len(c.Panels)

	canvas := image.NewRGBA(image.Rect(0, 0, width, panelHeight*len(c.Panels)))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	next := 0
	for i, p := range c.Panels {
		gc, ok := panelChart(c, i, p, width, panelHeight, &next)
		if !ok {
			continue
		}
		var buf bytes.Buffer
		if err := gc.Render(gochart.PNG, &buf); err != nil {
			return fmt.Errorf("render panel %q: %w", p.Title, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("decode panel %q: %w", p.Title, err)
		}
		dst := image.Rect(0, i*panelHeight, width, (i+1)*panelHeight)
		draw.Draw(canvas, dst, img, img.Bounds().Min, draw.Src)
	}
	return png.Encode(w, canvas)
}

func hasPoints(c *Chart) bool {
	for _, p := range c.Panels {
		for _, s := range p.Series {
			if len(s.Points) > 0 {
				return true
			}
		}
	}
	return false
}

// panelChart builds the go-chart for one panel. next walks the fallback
// palette so unmapped series keep distinct colors across panels.
func panelChart(c *Chart, i int, p Panel, width, height int, next *int) (gochart.Chart, bool) {
	title := p.Title
	if i == 0 && c.Title != "" {
		title = strings.TrimSpace(c.Title + "  " + p.Title)
	}

	gc := gochart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		YAxis: gochart.YAxis{Name: p.YTitle},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01"),
		},
	}
	if i == len(c.Panels)-1 {
		gc.XAxis.Name = c.XTitle
	}

	var minX, maxX time.Time
	var minY, maxY float64
	first := true
	for _, s := range p.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]time.Time, len(s.Points))
		ys := make([]float64, len(s.Points))
		for k, pt := range s.Points {
			xs[k] = pt.X
			ys[k] = pt.Y.InexactFloat64()
			if first || pt.X.Before(minX) {
				minX = pt.X
			}
			if first || pt.X.After(maxX) {
				maxX = pt.X
			}
			if first || ys[k] < minY {
				minY = ys[k]
			}
			if first || ys[k] > maxY {
				maxY = ys[k]
			}
			first = false
		}
		gc.Series = append(gc.Series, gochart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   seriesStyle(s, next),
		})
	}
	if len(gc.Series) == 0 {
		return gc, false
	}

	// go-chart refuses zero-width ranges, which a single date or a flat
	// line would produce.
	if !maxX.After(minX) {
		minX, maxX = minX.AddDate(0, 0, -15), maxX.AddDate(0, 0, 15)
	}
	if minY > 0 {
		minY = 0
	}
	if maxY <= minY {
		maxY = minY + 1
	}
	gc.XAxis.Range = &gochart.ContinuousRange{Min: gochart.TimeToFloat64(minX), Max: gochart.TimeToFloat64(maxX)}
	gc.YAxis.Range = &gochart.ContinuousRange{Min: minY, Max: maxY * 1.05}

	gc.Elements = []gochart.Renderable{gochart.Legend(&gc)}
	return gc, true
}

func seriesStyle(s Series, next *int) gochart.Style {
	hex, ok := Hex(s.Color)
	if !ok {
		hex = PaletteColor(*next)
		*next++
	}
	col := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))

	if s.Mode == Markers {
		size := float64(s.MarkerSize) / 2
		if size <= 0 {
			size = 4
		}
		return gochart.Style{
			StrokeWidth: gochart.Disabled,
			DotWidth:    size,
			DotColor:    col,
		}
	}
	return gochart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}
