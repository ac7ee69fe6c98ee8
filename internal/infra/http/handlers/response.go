package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/sdr-dashboard/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ failed to write response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUsecaseError maps dispatcher errors onto HTTP statuses.
func writeUsecaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusUnprocessableEntity
		switch de.Code {
		case usecase.CodeLeadNotFound:
			status = http.StatusNotFound
		case usecase.CodeNoDraft:
			status = http.StatusConflict
		}
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		status := http.StatusBadGateway
		if te.Code == usecase.CodeMailNotConfigured {
			status = http.StatusServiceUnavailable
		}
		writeErrorResponse(w, status, te.Code, te.Message)
		return
	}

	log.Printf("❌ unexpected error: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong.")
}
