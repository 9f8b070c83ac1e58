package http

import (
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/dynamo"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/sns"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/telegram"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserSessionRepo  *dynamo.UserSessionRepo
	LoginAttemptRepo *dynamo.LoginAttemptRepo
	AlertRepo        *dynamo.AlertRepo
	Messenger        telegram.Messenger
	// SMSSender is optional (nil disables the SMS copy of alerts).
	SMSSender sns.SMSSender
}
