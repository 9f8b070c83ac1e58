package handler

import (
	"encoding/json"
	"net/http"

	"github.com/GuilhermeKalleu19/api-telegram/internal/application/auth"
	"github.com/GuilhermeKalleu19/api-telegram/internal/pkg/validate"
)

// AuthHandler handles the two-step login endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// StartLogin requests a login code for the given phone number.
func (h *AuthHandler) StartLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.StartLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg, err := h.svc.StartLogin(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, msg)
}

// FinishLogin redeems the code (plus optional 2FA password) and persists the session.
func (h *AuthHandler) FinishLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.FinishLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg, err := h.svc.FinishLogin(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, msg)
}
