package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/toolbox/toolbox-go/internal/service"
)

const defaultSummaryWindow = 24 * time.Hour

// ActivityHandler serves the tool usage log.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// HandleList handles GET /api/v1/activity?limit=n requests.
func (h *ActivityHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse("limit must be a positive integer"))
			return
		}
		limit = n
	}

	events, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// HandleSummary handles GET /api/v1/activity/summary?window=24h requests.
func (h *ActivityHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	window := defaultSummaryWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse("window must be a positive duration"))
			return
		}
		window = d
	}

	counts, err := h.service.Summary(r.Context(), window)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"window": window.String(),
		"counts": counts,
	})
}
