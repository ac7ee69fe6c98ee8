package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/usecase"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityReader reads the persisted lead journal.
type ActivityReader interface {
	Recent(ctx context.Context, leadID string, limit int) ([]entity.LeadEvent, error)
}

type ActivityHandler struct {
	Leads   usecase.LeadStore
	Journal ActivityReader // nil when no database is configured
}

func NewActivityHandler(leads usecase.LeadStore, journal ActivityReader) *ActivityHandler {
	return &ActivityHandler{Leads: leads, Journal: journal}
}

// Recent (GET /leads/{id}/activity?limit=) lists journaled events, newest first.
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.Journal == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "JOURNAL_NOT_CONFIGURED", "Activity journal is not configured.")
		return
	}

	id := chi.URLParam(r, "id")
	if _, ok := h.Leads.Get(id); !ok {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeLeadNotFound, "Lead not found.")
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}

	evts, err := h.Journal.Recent(r.Context(), id, limit)
	if err != nil {
		log.Printf("❌ failed to read activity for lead %s: %v", id, err)
		writeErrorResponse(w, http.StatusInternalServerError, "ACTIVITY_UNAVAILABLE", "Failed to read lead activity.")
		return
	}
	if evts == nil {
		evts = []entity.LeadEvent{}
	}
	writeJSON(w, http.StatusOK, evts)
}
