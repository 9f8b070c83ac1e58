package alert

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GuilhermeKalleu19/api-telegram/internal/domain"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/sns"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/telegram"
	"github.com/GuilhermeKalleu19/api-telegram/internal/pkg/id"
)

const alertPrefix = "🚨 *PEDIDO DE SOCORRO* 🚨\n\n"

type SendAlertRequest struct {
	Phone        string  `json:"phone" validate:"required"`
	ContactPhone string  `json:"contact_phone" validate:"required"`
	Message      string  `json:"message" validate:"required"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// UserSessionStore is the permanent session collection, keyed by phone.
type UserSessionStore interface {
	Get(ctx context.Context, phone string) (*domain.UserSession, error)
}

// AlertStore is the alert audit collection.
type AlertStore interface {
	Put(ctx context.Context, a *domain.Alert) error
	MarkSMSCopy(ctx context.Context, alertID string) error
	ListByPhone(ctx context.Context, phone string) ([]domain.Alert, error)
}

type Service interface {
	Send(ctx context.Context, req SendAlertRequest) (message string, err error)
	History(ctx context.Context, phone string) ([]domain.Alert, error)
}

type ServiceDeps struct {
	Sessions  UserSessionStore
	Alerts    AlertStore
	Messenger telegram.Messenger
	// SMSSender may be nil; the SMS copy is then skipped.
	SMSSender sns.SMSSender
	// FallbackSession is the pre-provisioned session string for single-tenant
	// deployments. Empty in multi-user mode.
	FallbackSession string
}

type service struct {
	sessions        UserSessionStore
	alerts          AlertStore
	messenger       telegram.Messenger
	smsSender       sns.SMSSender
	fallbackSession string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:        deps.Sessions,
		alerts:          deps.Alerts,
		messenger:       deps.Messenger,
		smsSender:       deps.SMSSender,
		fallbackSession: deps.FallbackSession,
	}
}

func (s *service) Send(ctx context.Context, req SendAlertRequest) (string, error) {
	sess, err := s.resolveSession(ctx, req.Phone)
	if err != nil {
		return "", err
	}

	text := alertPrefix + req.Message
	err = s.messenger.Deliver(ctx, sess, telegram.AlertMessage{
		To:        req.ContactPhone,
		Text:      text,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	switch {
	case err == nil:
	case errors.Is(err, telegram.ErrSessionExpired):
		return "", fmt.Errorf("o login expirou, faça autenticação novamente: %w", domain.ErrUnauthorized)
	default:
		return "", fmt.Errorf("falha ao enviar pelo Telegram: %v", err)
	}

	s.record(ctx, req, text)

	return fmt.Sprintf("Alerta enviado para %s", req.ContactPhone), nil
}

// resolveSession loads the sender's stored session, falling back to the
// pre-provisioned one in single-tenant mode.
func (s *service) resolveSession(ctx context.Context, phone string) ([]byte, error) {
	record, err := s.sessions.Get(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if s.fallbackSession != "" {
				return decodeSession(s.fallbackSession)
			}
			return nil, fmt.Errorf("usuário não encontrado, faça login na API primeiro: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if record.SessionString == "" {
		return nil, fmt.Errorf("sessão inválida no banco de dados: %w", domain.ErrUnauthorized)
	}
	return decodeSession(record.SessionString)
}

func decodeSession(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("sessão inválida no banco de dados: %w", domain.ErrUnauthorized)
	}
	return raw, nil
}

// record writes the audit item and the optional SMS copy. Both are
// best-effort: the alert already reached the contact.
func (s *service) record(ctx context.Context, req SendAlertRequest, text string) {
	a := &domain.Alert{
		AlertID:      id.New(),
		Phone:        req.Phone,
		ContactPhone: req.ContactPhone,
		Message:      req.Message,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.alerts.Put(ctx, a); err != nil {
		slog.Warn("failed to record alert", "phone", req.Phone, "err", err)
		return
	}
	if s.smsSender == nil {
		return
	}
	if err := s.smsSender.SendSMS(ctx, req.ContactPhone, text); err != nil {
		slog.Warn("failed to send SMS copy", "contact", req.ContactPhone, "err", err)
		return
	}
	if err := s.alerts.MarkSMSCopy(ctx, a.AlertID); err != nil {
		slog.Warn("failed to flag SMS copy", "alert_id", a.AlertID, "err", err)
	}
}

func (s *service) History(ctx context.Context, phone string) ([]domain.Alert, error) {
	return s.alerts.ListByPhone(ctx, phone)
}
