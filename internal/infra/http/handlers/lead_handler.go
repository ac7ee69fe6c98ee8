package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/query"
	"github.com/xavierca1/sdr-dashboard/internal/usecase"
)

type LeadHandler struct {
	Dispatcher *usecase.Dispatcher
}

func NewLeadHandler(d *usecase.Dispatcher) *LeadHandler {
	return &LeadHandler{Dispatcher: d}
}

// List (GET /leads?stage=&minScore=&q=&sort=) runs a stateless query; the session is untouched.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := paramsFromQuery(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Dispatcher.Query(p))
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.Dispatcher.Store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeLeadNotFound, "Lead not found.")
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Dispatcher.Stats())
}

func (h *LeadHandler) Qualify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idleLead(w, r)
	if !ok {
		return
	}
	out, err := h.Dispatcher.Qualify(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) Compose(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idleLead(w, r)
	if !ok {
		return
	}
	out, err := h.Dispatcher.Compose(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) ProposeSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idleLead(w, r)
	if !ok {
		return
	}
	slots, err := h.Dispatcher.ProposeSlots(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// GetSlots returns the last proposal for the lead, if any.
func (h *LeadHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	slots, ok := h.Dispatcher.Session.Slots(chi.URLParam(r, "id"))
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "NO_SLOTS", "No slots proposed for this lead.")
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// Advance never fails: an unknown lead is a no-op answered with 204.
func (h *LeadHandler) Advance(w http.ResponseWriter, r *http.Request) {
	lead, ok := h.Dispatcher.Advance(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// LogEmail logs the draft in the body, or the pending draft when the body is empty.
func (h *LeadHandler) LogEmail(w http.ResponseWriter, r *http.Request) {
	draft, err := optionalDraft(r)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid draft payload.")
		return
	}

	lead, err := h.Dispatcher.LogEmail(r.Context(), chi.URLParam(r, "id"), draft)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	if lead == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idleLead(w, r)
	if !ok {
		return
	}
	lead, err := h.Dispatcher.SendDraft(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	if lead == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.Dispatcher.Session.Draft(chi.URLParam(r, "id"))
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNoDraft, "No draft pending for this lead.")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// PutDraft stores the user's edits to the pending draft.
func (h *LeadHandler) PutDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Dispatcher.Store.Get(id); !ok {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeLeadNotFound, "Lead not found.")
		return
	}

	var draft entity.EmailDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid draft payload.")
		return
	}
	h.Dispatcher.Session.SetDraft(id, draft)
	writeJSON(w, http.StatusOK, draft)
}

func (h *LeadHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	h.Dispatcher.Session.DiscardDraft(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// idleLead answers 409 while another workflow is running for the lead.
func (h *LeadHandler) idleLead(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if h.Dispatcher.Session.Busy(id) {
		writeErrorResponse(w, http.StatusConflict, "LEAD_BUSY", "An action is already running for this lead.")
		return "", false
	}
	return id, true
}

func optionalDraft(r *http.Request) (*entity.EmailDraft, error) {
	var draft entity.EmailDraft
	err := json.NewDecoder(r.Body).Decode(&draft)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func paramsFromQuery(r *http.Request) (query.Params, error) {
	q := r.URL.Query()
	p := query.DefaultParams()

	stage, err := query.ParseStageFilter(q.Get("stage"))
	if err != nil {
		return p, err
	}
	p.Stage = stage

	if raw := q.Get("minScore"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, errors.New("minScore must be an integer")
		}
		p.MinScore = n
	}

	sort, err := query.ParseSort(q.Get("sort"))
	if err != nil {
		return p, err
	}
	p.Sort = sort
	p.Search = query.NormalizeSearch(q.Get("q"))
	return p, nil
}
