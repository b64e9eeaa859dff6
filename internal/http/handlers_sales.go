package http

import (
	"bytes"
	"net/http"

	"menusales/internal/core"
	applog "menusales/internal/log"
)

type seriesResponse struct {
	Category string      `json:"category"`
	Item     string      `json:"item"`
	Chart    string      `json:"chart"`
	Points   []pointView `json:"points"`
}

type compareResponse struct {
	Category string      `json:"category"`
	Chart    string      `json:"chart"`
	Months   []string    `json:"months"`
	Items    []string    `json:"items"`
	Rows     [][]*string `json:"rows"`
	Warning  string      `json:"warning,omitempty"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoryViews(s.sales.Categories()))
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	category := categoryOf(r.PathValue("category"))
	n, err := s.sales.Series(r.Context(), category)
	if err != nil {
		s.writeError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"items":    n.Items(),
		"months":   n.Months(),
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	category := categoryOf(r.PathValue("category"))
	item := sanitizeInput(r.URL.Query().Get("item"))
	res, err := s.sales.Single(r.Context(), category, item)
	if err != nil {
		s.writeError(w, r, applog.OpSelect, err)
		return
	}
	s.events.LogSelection(r.Context(), string(category), []string{item}, string(res.Chart))
	writeJSON(w, http.StatusOK, seriesResponse{
		Category: string(category),
		Item:     item,
		Chart:    string(res.Chart),
		Points:   pointViews(res.Points),
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	category := categoryOf(r.PathValue("category"))
	items := parseItems(r)
	res, err := s.sales.Compare(r.Context(), category, items)
	if err != nil {
		s.writeError(w, r, applog.OpSelect, err)
		return
	}

	out := compareResponse{
		Category: string(category),
		Chart:    string(res.Chart),
		Months:   res.Table.Months,
		Items:    res.Table.Items,
		Rows:     make([][]*string, len(res.Table.Cells)),
	}
	for m, row := range res.Table.Cells {
		out.Rows[m] = make([]*string, len(row))
		for i, q := range row {
			out.Rows[m][i] = quantityValue(q)
		}
	}
	if res.Table.Empty() {
		out.Warning = noItemsSelected
	} else {
		s.events.LogSelection(r.Context(), string(category), items, string(res.Chart))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	category := categoryOf(r.PathValue("category"))
	item := sanitizeInput(r.URL.Query().Get("item"))

	var buf bytes.Buffer
	if err := s.sales.WriteBarChart(r.Context(), &buf, category, item); err != nil {
		s.writeError(w, r, applog.OpRender, err)
		return
	}
	s.events.LogSelection(r.Context(), string(category), []string{item}, string(core.ChartBar))
	writePNG(w, buf.Bytes())
}

func (s *Server) handleLineChart(w http.ResponseWriter, r *http.Request) {
	category := categoryOf(r.PathValue("category"))
	items := parseItems(r)

	var buf bytes.Buffer
	if err := s.sales.WriteLineChart(r.Context(), &buf, category, items); err != nil {
		s.writeError(w, r, applog.OpRender, err)
		return
	}
	s.events.LogSelection(r.Context(), string(category), items, string(core.ChartLine))
	writePNG(w, buf.Bytes())
}

// writePNG sends a fully rendered image so a render failure can still
// become a JSON error.
func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
