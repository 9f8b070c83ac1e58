package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SessionChecker reports whether the pre-provisioned Telegram session is
// authorized. Nil session bytes report false without a network call.
type SessionChecker interface {
	CheckSession(ctx context.Context, session []byte) (bool, error)
}

// HealthHandler handles liveness endpoints.
type HealthHandler struct {
	checker SessionChecker
	session []byte
}

// NewHealthHandler takes the transport checker and the decoded pre-provisioned
// session (nil in multi-user mode).
func NewHealthHandler(checker SessionChecker, session []byte) *HealthHandler {
	return &HealthHandler{checker: checker, session: session}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if action == "ping" {
		writeJSON(w, http.StatusOK, StatusEnvelope{Status: "sucesso", Message: "pong"})
		return
	}
	writeError(w, http.StatusBadRequest, "unknown action")
}

// Root reports process liveness and, when a session is pre-provisioned,
// whether it still authorizes against Telegram.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	connected := false
	if len(h.session) > 0 {
		ok, err := h.checker.CheckSession(r.Context(), h.session)
		connected = err == nil && ok
	}
	writeJSON(w, http.StatusOK, HealthEnvelope{
		Status:            "online",
		TelegramConnected: connected,
		Message:           "Servidor rodando. Use POST /enviar-alerta",
	})
}
