/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures the dashboard API returns. Chart figures are
  returned as chart.Figure directly since that type already is the wire
  format the browser renders.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - chart/plotly.go: Figure type
*/
package api

import (
	"github.com/warp/insurance-dashboard/insurance"
	"github.com/warp/insurance-dashboard/table"
)

// =============================================================================
// CHARTS
// =============================================================================

// ChartDTO describes one tab's chart.
type ChartDTO struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Title     string `json:"title,omitempty"`
	Series    int    `json:"series"`
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

func toChartDTO(t insurance.Tab) ChartDTO {
	dto := ChartDTO{ID: t.ID, Label: t.Label, Available: t.Available()}
	if t.Chart != nil {
		dto.Title = t.Chart.Title
		dto.Series = t.Chart.SeriesCount()
	}
	if t.Err != nil {
		dto.Error = t.Err.Error()
	}
	return dto
}

// =============================================================================
// VIEWS
// =============================================================================

// ViewSummaryDTO is a view listing entry.
type ViewSummaryDTO struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    int      `json:"rows"`
}

// ViewDTO is a derived view with its data.
type ViewDTO struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func toViewDTO(name string, t *table.Table) ViewDTO {
	return ViewDTO{Name: name, Columns: t.Columns(), Rows: t.Records()}
}

// =============================================================================
// MISC
// =============================================================================

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	Available int    `json:"available"`
	Tabs      int    `json:"tabs"`
}

// ErrorResponse is returned for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
