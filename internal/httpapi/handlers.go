package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/doorlog/doorlog/internal/analytics"
	"github.com/doorlog/doorlog/internal/event"
	"github.com/doorlog/doorlog/internal/export"
)

type timelineResponse struct {
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	Total      int                    `json:"total"`
	TotalPages int                    `json:"total_pages"`
	Items      []export.ExportedEvent `json:"items"`
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := resolveRange(q, s.now())

	events, err := s.store.QueryRange(r.Context(), start, end, eventTypesParam(q))
	if err != nil {
		s.logger.Printf("timeline query error: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "event query failed")
		return
	}

	page := parseIntClamped(q.Get("page"), 1, 1, 500)
	pageSize := parseIntClamped(q.Get("page_size"), 50, 1, 500)
	p := analytics.Paginate(events, page, pageSize)

	writeJSON(w, http.StatusOK, timelineResponse{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		Items:      export.ToStructured(p.Items),
	})
}

type monthsResponse struct {
	Months        []string `json:"months"`
	SelectedMonth string   `json:"selected_month"`
	Page          int      `json:"page"`
	PerPage       int      `json:"per_page"`
	TotalPages    int      `json:"total_pages"`
	TotalMonths   int      `json:"total_months"`
}

// handleMonths pages through the month keys covering the requested range,
// for the dashboard's month picker.
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := resolveRange(q, s.now())
	months := event.MonthKeysInRange(start, end)

	page := parseIntClamped(q.Get("page"), 1, 1, 500)
	perPage := parseIntClamped(q.Get("per_page"), 1, 1, 12)

	totalPages := 1
	if len(months) > 0 {
		totalPages = (len(months) + perPage - 1) / perPage
	}
	if page > totalPages {
		page = totalPages
	}

	lo := (page - 1) * perPage
	hi := lo + perPage
	if hi > len(months) {
		hi = len(months)
	}
	pageMonths := []string{}
	if lo < len(months) {
		pageMonths = months[lo:hi]
	}

	selected := event.MonthKey(s.now())
	if len(pageMonths) > 0 {
		selected = pageMonths[len(pageMonths)-1]
	}

	writeJSON(w, http.StatusOK, monthsResponse{
		Months:        pageMonths,
		SelectedMonth: selected,
		Page:          page,
		PerPage:       perPage,
		TotalPages:    totalPages,
		TotalMonths:   len(months),
	})
}

// handleExport streams one month's full shard as a CSV or JSON attachment.
// The month is required and the format must be recognized: there is no safe
// default for either, so these reject instead of degrading.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	monthKey := strings.TrimSpace(q.Get("month"))
	if monthKey == "" {
		writeError(w, http.StatusBadRequest, "missing_month", "month is required")
		return
	}

	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format == "" {
		format = "json"
	}
	if format != "csv" && format != "json" {
		writeError(w, http.StatusBadRequest, "bad_format", "format must be csv or json")
		return
	}

	events, err := s.store.QueryMonth(r.Context(), monthKey)
	if err != nil {
		s.logger.Printf("export query error: %v", err)
		writeError(w, http.StatusInternalServerError, "storage_error", "event query failed")
		return
	}

	disposition := fmt.Sprintf("attachment; filename=%q", "metrics-"+monthKey+"."+format)

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", disposition)
		_, _ = w.Write([]byte(export.ToCSV(events)))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", disposition)
	_ = json.NewEncoder(w).Encode(export.ToStructured(events))
}
