package report

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ardanpr/expense-report-portal/internal"
	"github.com/ardanpr/expense-report-portal/internal/transport"
	"github.com/ardanpr/expense-report-portal/pkg/logger"
)

type ServiceAPI interface {
	SubmitBatch(ctx context.Context, inputs []SubmitInput) ([]*Report, error)
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

// BulkSubmit handles POST /reports/bulk. The body is a JSON array of
// submission inputs; the response is the materialized rows with assigned
// ids and timestamps, in input order.
func (h *Handler) BulkSubmit(w http.ResponseWriter, r *http.Request) {
	var inputs []SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		h.Logger.Error("BulkSubmit: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reports, err := h.Service.SubmitBatch(r.Context(), inputs)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			h.WriteError(w, appErr.StatusCode, appErr.Message)
			return
		}
		h.Logger.Error("BulkSubmit: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to store report batch")
		return
	}

	h.WriteJSON(w, http.StatusOK, reports)
}
