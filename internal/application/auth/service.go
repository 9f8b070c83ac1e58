// Package auth sequences the two-step Telegram login handshake.
//
// Concurrent login-start calls for the same phone race on the shared pending
// record (last writer wins); the second start invalidates the first code.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GuilhermeKalleu19/api-telegram/internal/domain"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/telegram"
)

// Pending attempts are reaped by the store TTL; Telegram codes don't live
// much longer than this anyway.
const attemptTTL = 10 * time.Minute

type StartLoginRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type FinishLoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Password string `json:"password"`
}

// UserSessionStore is the permanent session collection, keyed by phone.
type UserSessionStore interface {
	Put(ctx context.Context, s *domain.UserSession) error
}

// LoginAttemptStore is the transient pending-login collection, keyed by phone.
type LoginAttemptStore interface {
	Put(ctx context.Context, a *domain.LoginAttempt) error
	Get(ctx context.Context, phone string) (*domain.LoginAttempt, error)
	Delete(ctx context.Context, phone string) error
}

type Service interface {
	StartLogin(ctx context.Context, req StartLoginRequest) (message string, err error)
	FinishLogin(ctx context.Context, req FinishLoginRequest) (message string, err error)
}

type ServiceDeps struct {
	Sessions  UserSessionStore
	Attempts  LoginAttemptStore
	Messenger telegram.Messenger
}

type service struct {
	sessions  UserSessionStore
	attempts  LoginAttemptStore
	messenger telegram.Messenger
}

func NewService(deps ServiceDeps) Service {
	return &service{
		sessions:  deps.Sessions,
		attempts:  deps.Attempts,
		messenger: deps.Messenger,
	}
}

func (s *service) StartLogin(ctx context.Context, req StartLoginRequest) (string, error) {
	sent, err := s.messenger.SendCode(ctx, req.Phone)
	if err != nil {
		return "", fmt.Errorf("erro ao solicitar código (%v): %w", err, domain.ErrBadRequest)
	}

	now := time.Now().UTC()
	attempt := &domain.LoginAttempt{
		Phone:           req.Phone,
		CodeHash:        sent.PhoneCodeHash,
		SessionSnapshot: base64.StdEncoding.EncodeToString(sent.SessionSnapshot),
		CreatedAt:       now,
		ExpiresAt:       now.Add(attemptTTL).Unix(),
	}
	if err := s.attempts.Put(ctx, attempt); err != nil {
		return "", fmt.Errorf("falha ao registrar a tentativa de login: %v", err)
	}

	return fmt.Sprintf("Código enviado para %s. Verifique seu Telegram/SMS.", req.Phone), nil
}

func (s *service) FinishLogin(ctx context.Context, req FinishLoginRequest) (string, error) {
	attempt, err := s.attempts.Get(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("sessão de login não encontrada, refaça o passo 1 (/autenticacao/iniciar): %w", domain.ErrBadRequest)
		}
		return "", err
	}

	snapshot, err := base64.StdEncoding.DecodeString(attempt.SessionSnapshot)
	if err != nil {
		return "", fmt.Errorf("tentativa de login corrompida, refaça o passo 1: %w", domain.ErrBadRequest)
	}

	sess, err := s.messenger.SignIn(ctx, telegram.SignInInput{
		Phone:           req.Phone,
		Code:            req.Code,
		CodeHash:        attempt.CodeHash,
		Password:        req.Password,
		SessionSnapshot: snapshot,
	})
	switch {
	case err == nil:
	case errors.Is(err, telegram.ErrPasswordNeeded):
		return "", fmt.Errorf("esta conta possui senha de dois fatores, preencha o campo 'password': %w", domain.ErrUnauthorized)
	case errors.Is(err, telegram.ErrInvalidPassword):
		return "", fmt.Errorf("senha 2FA incorreta (%v): %w", err, domain.ErrUnauthorized)
	default:
		return "", fmt.Errorf("erro no login, código inválido ou expirado (%v): %w", err, domain.ErrBadRequest)
	}

	record := &domain.UserSession{
		Phone:         req.Phone,
		SessionString: base64.StdEncoding.EncodeToString(sess),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, record); err != nil {
		// The Telegram side already succeeded — say so, or the caller will
		// burn another login code retrying the whole flow.
		return "", fmt.Errorf("login no Telegram concluído, mas houve falha ao salvar a sessão: %v", err)
	}

	if err := s.attempts.Delete(ctx, req.Phone); err != nil {
		slog.Warn("failed to delete login attempt", "phone", req.Phone, "err", err)
	}

	return "Login realizado! Sessão salva no banco de dados.", nil
}
