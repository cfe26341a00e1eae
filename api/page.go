package api

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/warp/insurance-dashboard/chart"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type pageTab struct {
	ID     string
	Label  string
	Active bool
	Figure *chart.Figure
	Error  string
}

type pageData struct {
	Title string
	Tabs  []pageTab
}

// Index renders the dashboard page. Figures are inlined so the page needs no
// further API calls; unavailable tabs show their error instead.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Insurance Dashboard"}
	for i, t := range h.Dashboard.Tabs {
		pt := pageTab{ID: t.ID, Label: t.Label, Active: i == 0}
		if t.Available() {
			fig := t.Chart.Plotly()
			pt.Figure = &fig
		} else if t.Err != nil {
			pt.Error = t.Err.Error()
		}
		data.Tabs = append(data.Tabs, pt)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.Printf("[Server] Failed to render page: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to render page", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
