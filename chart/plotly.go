package chart

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// PLOTLY FIGURE - what the dashboard page hands to Plotly.newPlot
// =============================================================================

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a Plotly scatter trace.
type Trace struct {
	Type   string    `json:"type"`
	Name   string    `json:"name"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Mode   string    `json:"mode"`
	Marker Marker    `json:"marker"`
	Line   *Line     `json:"line,omitempty"`
	XAxis  string    `json:"xaxis,omitempty"`
	YAxis  string    `json:"yaxis,omitempty"`
}

type Marker struct {
	Color  string `json:"color,omitempty"`
	Symbol string `json:"symbol,omitempty"`
	Size   int    `json:"size,omitempty"`
}

type Line struct {
	Color string `json:"color,omitempty"`
}

type Text struct {
	Text string `json:"text"`
}

type Axis struct {
	Title  Text       `json:"title"`
	Domain [2]float64 `json:"domain"`
	Anchor string     `json:"anchor,omitempty"`
	Type   string     `json:"type,omitempty"`
}

type Legend struct {
	Title Text `json:"title"`
}

type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	ShowArrow bool    `json:"showarrow"`
}

// Layout is the figure layout. YAxes are emitted as yaxis, yaxis2, ...
type Layout struct {
	Title       Text         `json:"title"`
	Height      int          `json:"height,omitempty"`
	HoverMode   string       `json:"hovermode,omitempty"`
	Legend      Legend       `json:"legend"`
	XAxis       Axis         `json:"xaxis"`
	YAxes       []Axis       `json:"-"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

func (l Layout) MarshalJSON() ([]byte, error) {
	type plain Layout
	b, err := json.Marshal(plain(l))
	if err != nil {
		return nil, err
	}
	m := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for i, ax := range l.YAxes {
		raw, err := json.Marshal(ax)
		if err != nil {
			return nil, err
		}
		m[axisKey("yaxis", i)] = raw
	}
	return json.Marshal(m)
}

// axisKey names the i-th axis the way Plotly does: yaxis, yaxis2, yaxis3...
func axisKey(prefix string, i int) string {
	if i == 0 {
		return prefix
	}
	return fmt.Sprintf("%s%d", prefix, i+1)
}

// panelGap is the vertical space between stacked panels, as a paper fraction.
const panelGap = 0.15

// panelDomain returns the [bottom, top] paper range of panel i out of n,
// counting from the top.
func panelDomain(i, n int) [2]float64 {
	if n <= 1 {
		return [2]float64{0, 1}
	}
	h := (1 - panelGap*float64(n-1)) / float64(n)
	bottom := float64(n-1-i) * (h + panelGap)
	if i == 0 {
		return [2]float64{bottom, 1}
	}
	return [2]float64{bottom, min(bottom+h, 1)}
}

// Plotly encodes the chart as a Plotly figure. All panels share the x-axis,
// which is anchored to the bottom panel.
func (c *Chart) Plotly() Figure {
	n := len(c.Panels)
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:     Text{Text: c.Title},
			Height:    c.Height,
			HoverMode: c.HoverMode,
			Legend:    Legend{Title: Text{Text: c.LegendTitle}},
			XAxis: Axis{
				Title:  Text{Text: c.XTitle},
				Domain: [2]float64{0, 1},
				Anchor: axisKey("y", max(n-1, 0)),
				Type:   "date",
			},
		},
	}

	for i, p := range c.Panels {
		domain := panelDomain(i, n)
		fig.Layout.YAxes = append(fig.Layout.YAxes, Axis{
			Title:  Text{Text: p.YTitle},
			Domain: domain,
			Anchor: "x",
		})
		if p.Title != "" && n > 1 {
			fig.Layout.Annotations = append(fig.Layout.Annotations, Annotation{
				Text: p.Title, X: 0.5, Y: domain[1],
				XRef: "paper", YRef: "paper",
				XAnchor: "center", YAnchor: "bottom",
			})
		}

		for _, s := range p.Series {
			tr := Trace{
				Type: "scatter",
				Name: s.Name,
				X:    make([]string, len(s.Points)),
				Y:    make([]float64, len(s.Points)),
				Mode: string(s.Mode),
				Marker: Marker{
					Color:  s.Color,
					Symbol: string(s.Symbol),
					Size:   s.MarkerSize,
				},
				XAxis: "x",
				YAxis: axisKey("y", i),
			}
			if s.Mode == LinesMarkers && s.Color != "" {
				tr.Line = &Line{Color: s.Color}
			}
			for k, pt := range s.Points {
				tr.X[k] = pt.X.Format("2006-01-02")
				tr.Y[k] = pt.Y.InexactFloat64()
			}
			fig.Data = append(fig.Data, tr)
		}
	}
	return fig
}
