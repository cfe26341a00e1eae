/*
handlers.go - HTTP handlers for the insurance dashboard

PURPOSE:
  Exposes the dashboard built at startup. Every handler only reads the
  shared insurance.Dashboard; nothing here loads files or rebuilds charts.

ENDPOINTS:
  Page:
    GET    /                         Two-tab dashboard page

  Charts:
    GET    /api/charts               List tabs and whether their chart is available
    GET    /api/charts/{id}          Plotly figure JSON
    GET    /api/charts/{id}/png      Server-side PNG rendering (?width=)

  Views:
    GET    /api/views                List derived views
    GET    /api/views/{name}         One derived view as {columns, rows}

  Misc:
    GET    /api/summary              Latest premiums and claim counts
    GET    /healthz                  Liveness

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid query parameters
  - 404: Unknown chart or view
  - 503: Chart could not be built from its input files
  - 500: Rendering failures

SEE ALSO:
  - dto.go: Response data structures
  - page.go: Dashboard page
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/warp/insurance-dashboard/chart"
	"github.com/warp/insurance-dashboard/insurance"
)

// maxPNGWidth bounds the ?width= parameter of the PNG endpoint.
const maxPNGWidth = 4000

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler serves a dashboard that was built once at startup.
type Handler struct {
	Dashboard *insurance.Dashboard
}

// NewHandler creates a new handler for the given dashboard.
func NewHandler(d *insurance.Dashboard) *Handler {
	return &Handler{Dashboard: d}
}

// =============================================================================
// CHART ENDPOINTS
// =============================================================================

// ListCharts returns every tab, including unavailable ones.
func (h *Handler) ListCharts(w http.ResponseWriter, r *http.Request) {
	out := make([]ChartDTO, 0, len(h.Dashboard.Tabs))
	for _, t := range h.Dashboard.Tabs {
		out = append(out, toChartDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetChart returns a tab's chart as a Plotly figure.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	tab, ok := h.availableTab(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tab.Chart.Plotly())
}

// GetChartPNG renders a tab's chart to PNG.
func (h *Handler) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	width := chart.DefaultWidth
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxPNGWidth {
			writeError(w, http.StatusBadRequest, "Invalid width", err)
			return
		}
		width = n
	}

	tab, ok := h.availableTab(w, r)
	if !ok {
		return
	}

	// Render into a buffer so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := chart.RenderPNG(tab.Chart, &buf, width); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chart.ErrNoData) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, "Failed to render chart", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// availableTab resolves {id} to a tab with a chart, writing the error
// response when there is none.
func (h *Handler) availableTab(w http.ResponseWriter, r *http.Request) (insurance.Tab, bool) {
	id := chi.URLParam(r, "id")
	tab, ok := h.Dashboard.Tab(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Chart not found", nil)
		return insurance.Tab{}, false
	}
	if !tab.Available() {
		writeError(w, http.StatusServiceUnavailable, "Chart unavailable", tab.Err)
		return insurance.Tab{}, false
	}
	return tab, true
}

// =============================================================================
// VIEW ENDPOINTS
// =============================================================================

// ListViews returns the name and shape of every derived view.
func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	out := make([]ViewSummaryDTO, 0, len(h.Dashboard.Views))
	for _, v := range h.Dashboard.Views {
		out = append(out, ViewSummaryDTO{Name: v.Name, Columns: v.Table.Columns(), Rows: v.Table.Len()})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetView returns one derived view with its rows.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, ok := h.Dashboard.View(name)
	if !ok {
		writeError(w, http.StatusNotFound, "View not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toViewDTO(v.Name, v.Table))
}

// =============================================================================
// MISC ENDPOINTS
// =============================================================================

// GetSummary returns the headline premium figures.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Dashboard.Summary)
}

// Health reports liveness. A dashboard with unavailable tabs is still up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Tabs: len(h.Dashboard.Tabs)}
	for _, t := range h.Dashboard.Tabs {
		if t.Available() {
			resp.Available++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
