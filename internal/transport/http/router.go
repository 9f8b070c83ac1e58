package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	alertapp "github.com/GuilhermeKalleu19/api-telegram/internal/application/alert"
	"github.com/GuilhermeKalleu19/api-telegram/internal/application/auth"
	"github.com/GuilhermeKalleu19/api-telegram/internal/config"
	"github.com/GuilhermeKalleu19/api-telegram/internal/transport/http/handler"
	appmiddleware "github.com/GuilhermeKalleu19/api-telegram/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Every login-start costs a real Telegram code send; keep the auth
	// endpoints behind a tight per-IP limit.
	authRL := appmiddleware.NewRateLimiter(rate.Limit(1), 5)

	authSvc := auth.NewService(auth.ServiceDeps{
		Sessions:  deps.UserSessionRepo,
		Attempts:  deps.LoginAttemptRepo,
		Messenger: deps.Messenger,
	})
	alertSvc := alertapp.NewService(alertapp.ServiceDeps{
		Sessions:        deps.UserSessionRepo,
		Alerts:          deps.AlertRepo,
		Messenger:       deps.Messenger,
		SMSSender:       deps.SMSSender,
		FallbackSession: cfg.TelegramSession,
	})

	authH := handler.NewAuthHandler(authSvc)
	alertH := handler.NewAlertHandler(alertSvc)
	healthH := handler.NewHealthHandler(deps.Messenger, decodeStaticSession(cfg.TelegramSession))

	r.Get("/", healthH.Root)
	r.Get("/health-check/{action}", healthH.Ping)
	r.With(authRL.Limit).Post("/autenticacao/iniciar", authH.StartLogin)
	r.With(authRL.Limit).Post("/autenticacao/finalizar", authH.FinishLogin)
	r.Post("/enviar-alerta", alertH.Send)
	r.Get("/alertas", alertH.History)

	return r
}

func decodeStaticSession(s string) []byte {
	if s == "" {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		slog.Warn("TELEGRAM_SESSION is not valid base64; ignoring", "err", err)
		return nil
	}
	return raw
}
