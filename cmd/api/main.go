package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GuilhermeKalleu19/api-telegram/internal/config"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/dynamo"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/sns"
	"github.com/GuilhermeKalleu19/api-telegram/internal/infrastructure/telegram"
	transporthttp "github.com/GuilhermeKalleu19/api-telegram/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	if cfg.TelegramAPIID == 0 || cfg.TelegramAPIHash == "" {
		log.Println("WARN: TELEGRAM_API_ID / TELEGRAM_API_HASH not set; Telegram calls will fail")
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// SNS SMS copy of alerts (optional — graceful fallback).
	var smsSender sns.SMSSender
	if cfg.SMSFallback {
		if sender, err := sns.NewSender(cfg); err == nil {
			smsSender = sender
		} else {
			log.Printf("WARN: SNS sender not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		UserSessionRepo:  dynamo.NewUserSessionRepo(dynamoClient, cfg.DynamoTables.Users),
		LoginAttemptRepo: dynamo.NewLoginAttemptRepo(dynamoClient, cfg.DynamoTables.LoginAttempts),
		AlertRepo:        dynamo.NewAlertRepo(dynamoClient, cfg.DynamoTables.Alerts),
		Messenger:        telegram.NewClient(cfg),
		SMSSender:        smsSender,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Telegram round trips (connect + code send) dominate request time.
		WriteTimeout: time.Duration(cfg.TelegramTimeoutSeconds+15) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
