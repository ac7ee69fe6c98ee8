package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/query"
	"github.com/xavierca1/sdr-dashboard/internal/usecase"
)

type SessionHandler struct {
	Dispatcher *usecase.Dispatcher
}

func NewSessionHandler(d *usecase.Dispatcher) *SessionHandler {
	return &SessionHandler{Dispatcher: d}
}

type FiltersRequest struct {
	Stage    string `json:"stage"`
	MinScore int    `json:"minScore"`
	Sort     string `json:"sort"`
}

type SearchRequest struct {
	Search string `json:"search"`
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Dispatcher.Session.State())
}

// View is the session's current lead list under its effective parameters.
func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Dispatcher.View())
}

func (h *SessionHandler) PutFilters(w http.ResponseWriter, r *http.Request) {
	var req FiltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid filters payload.")
		return
	}

	stage, err := query.ParseStageFilter(req.Stage)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_STAGE", err.Error())
		return
	}
	sort, err := query.ParseSort(req.Sort)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
		return
	}
	minScore := min(max(req.MinScore, entity.MinScore), entity.MaxScore)

	h.Dispatcher.Session.SetFilters(stage, minScore, sort)
	writeJSON(w, http.StatusOK, h.Dispatcher.Session.Params())
}

// PutSearch records a keystroke; the effective term follows after the debounce window.
func (h *SessionHandler) PutSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid search payload.")
		return
	}
	h.Dispatcher.Session.TypeSearch(req.Search)
	w.WriteHeader(http.StatusAccepted)
}

func (h *SessionHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.Dispatcher.Session.DismissError()
	w.WriteHeader(http.StatusNoContent)
}
