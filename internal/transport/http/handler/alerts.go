package handler

import (
	"encoding/json"
	"net/http"

	"github.com/GuilhermeKalleu19/api-telegram/internal/application/alert"
	"github.com/GuilhermeKalleu19/api-telegram/internal/pkg/validate"
)

// AlertHandler handles the emergency-alert endpoints.
type AlertHandler struct {
	svc alert.Service
}

func NewAlertHandler(svc alert.Service) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// Send delivers the emergency text and geo point to the chosen contact.
func (h *AlertHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req alert.SendAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg, err := h.svc.Send(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, msg)
}

// History lists the sender's past alerts, newest first.
func (h *AlertHandler) History(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone query parameter required")
		return
	}
	alerts, err := h.svc.History(r.Context(), phone)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}
