package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"menusales/internal/core"
	applog "menusales/internal/log"
)

const noItemsSelected = "no items selected"

type categoryView struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Layout string `json:"layout"`
}

// tableView is a SeriesTable laid out for the front page: one row per month,
// one cell per selected item, missing quantities blank.
type tableView struct {
	Items []string
	Rows  []tableRow
}

type tableRow struct {
	Month string
	Cells []string
}

func newTableView(t core.SeriesTable) *tableView {
	v := &tableView{Items: t.Items, Rows: make([]tableRow, len(t.Months))}
	for m, month := range t.Months {
		cells := make([]string, len(t.Items))
		for i := range t.Items {
			cells[i] = core.FormatQuantity(t.Cells[m][i])
		}
		v.Rows[m] = tableRow{Month: month, Cells: cells}
	}
	return v
}

func categoryViews(infos []core.CategoryInfo) []categoryView {
	out := make([]categoryView, 0, len(infos))
	for _, info := range infos {
		out = append(out, categoryView{Name: string(info.Name), Label: info.Label, Layout: string(info.Layout)})
	}
	return out
}

type pointView struct {
	Month    string  `json:"month"`
	Quantity *string `json:"quantity"`
}

// quantityValue is nil for a missing cell so it encodes as JSON null.
func quantityValue(q core.Quantity) *string {
	if !q.Valid {
		return nil
	}
	s := q.Decimal.String()
	return &s
}

func pointViews(points []core.Point) []pointView {
	out := make([]pointView, len(points))
	for i, p := range points {
		out[i] = pointView{Month: p.Month, Quantity: quantityValue(p.Quantity)}
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func categoryOf(s string) core.Category {
	return core.Category(sanitizeInput(s))
}

// parseItems reads the repeated item query parameter, dropping blanks and
// repeats while keeping the order of first appearance.
func parseItems(r *http.Request) []string {
	raw := r.URL.Query()["item"]
	seen := make(map[string]bool, len(raw))
	items := make([]string, 0, len(raw))
	for _, v := range raw {
		v = sanitizeInput(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		items = append(items, v)
	}
	return items
}

func chartURL(category, file string, items []string) string {
	q := url.Values{"item": items}
	return "/charts/" + url.PathEscape(category) + "/" + file + "?" + q.Encode()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound), errors.Is(err, core.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, core.ErrMultilineComment), errors.Is(err, core.ErrNothingToRender):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and answers with a JSON error body. Internal details
// of 5xx failures are not echoed to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.events.LogError(ctx, "Request failed", err, applog.ComponentHTTP, op,
			applog.NewFields().WithRequestID(applog.RequestID(ctx)))
		msg = http.StatusText(status)
	} else {
		applog.FromContext(ctx).DebugContext(ctx, "Request rejected", applog.FieldOperation, op, applog.FieldError, err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
