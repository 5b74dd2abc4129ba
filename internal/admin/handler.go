package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ardanpr/expense-report-portal/internal/report"
	"github.com/ardanpr/expense-report-portal/internal/transport"
	"github.com/ardanpr/expense-report-portal/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListReports(ctx context.Context, q report.ListQuery) ([]*report.Report, error)
	GetReport(ctx context.Context, id int64) (*report.Report, error)
	DeleteReport(ctx context.Context, id int64) error
	GetStats(ctx context.Context, q report.StatsQuery) (*report.Stats, error)
	ListGPNs(ctx context.Context) ([]string, error)
	ListItems(ctx context.Context) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListReports handles GET /admin/reports. Filter params are optional and
// AND-combined; unknown sort_by/sort_order values silently fall back to
// created_at / DESC, matching the parse rules of the report package.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	reports, err := h.Service.ListReports(r.Context(), q)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	h.WriteJSON(w, http.StatusOK, reports)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	rep, err := h.Service.GetReport(r.Context(), id)
	if err != nil {
		if err == report.ErrNotFound {
			h.WriteError(w, http.StatusNotFound, "report not found")
			return
		}
		h.WriteError(w, http.StatusInternalServerError, "failed to get report")
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	if err := h.Service.DeleteReport(r.Context(), id); err != nil {
		if err == report.ErrNotFound {
			h.WriteError(w, http.StatusNotFound, "report not found")
			return
		}
		h.WriteError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Report deleted successfully",
		"id":      id,
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	var q report.StatsQuery
	var err error

	if q.StartDate, err = parseDateParam(r, "start_date"); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.EndDate, err = parseDateParam(r, "end_date"); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.Service.GetStats(r.Context(), q)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListGPNs(w http.ResponseWriter, r *http.Request) {
	gpns, err := h.Service.ListGPNs(r.Context())
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to list gpns")
		return
	}
	h.WriteJSON(w, http.StatusOK, gpns)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(r.Context())
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func parseListQuery(r *http.Request) (report.ListQuery, error) {
	params := r.URL.Query()

	q := report.ListQuery{
		GPN:       params.Get("gpn"),
		Item:      params.Get("item"),
		SortBy:    report.ParseSortColumn(params.Get("sort_by")),
		SortOrder: report.ParseSortOrder(params.Get("sort_order")),
	}

	var err error
	if q.StartDate, err = parseDateParam(r, "start_date"); err != nil {
		return q, err
	}
	if q.EndDate, err = parseDateParam(r, "end_date"); err != nil {
		return q, err
	}
	if q.MinAmount, err = parseFloatParam(r, "min_amount"); err != nil {
		return q, err
	}
	if q.MaxAmount, err = parseFloatParam(r, "max_amount"); err != nil {
		return q, err
	}

	if limitStr := params.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			q.Limit = l
		}
	}
	if offsetStr := params.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			q.Offset = o
		}
	}

	return q, nil
}

func parseDateParam(r *http.Request, name string) (*report.DateOnly, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := report.ParseDateOnly(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseFloatParam(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
