package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GuilhermeKalleu19/api-telegram/internal/domain"
)

// StatusEnvelope is the success wrapper: {"status":"sucesso","message":...}.
type StatusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorEnvelope is the failure wrapper.
type ErrorEnvelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// HealthEnvelope is the GET / body for the single-tenant deployment.
type HealthEnvelope struct {
	Status            string `json:"status"`
	TelegramConnected bool   `json:"telegram_connected"`
	Message           string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, StatusEnvelope{Status: "sucesso", Message: message})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorEnvelope{Status: "erro", Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
