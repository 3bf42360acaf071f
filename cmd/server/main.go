package main

import (
	"database/sql"
	"net/http"

	"adyen-notify-be/internal/config"
	"adyen-notify-be/internal/credentials"
	"adyen-notify-be/internal/db"
	"adyen-notify-be/internal/logger"
	"adyen-notify-be/internal/middleware"
	"adyen-notify-be/internal/notification"
	"adyen-notify-be/internal/notification/processor"
	"adyen-notify-be/internal/notification/webhook"
	"adyen-notify-be/internal/order"

	"go.uber.org/zap"
)

// Indirections for testability.
var (
	initDBFunc      = db.InitDB
	startServerFunc = http.ListenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	handler := newServer(cfg, database)

	logger.L().Info("🚀 notification server listening",
		zap.String("port", cfg.AppPort),
		zap.String("webhook_path", cfg.WebhookPath),
	)
	return startServerFunc(":"+cfg.AppPort, handler)
}

// newServer wires the notification pipeline and returns the root handler.
func newServer(cfg *config.Config, database *sql.DB) http.Handler {
	credStore := credentials.NewStore(database)
	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	notifRepo := notification.NewRepository(database)
	dispatcher := notification.NewDispatcher(notifRepo, processor.Defaults(orderSvc)...)
	dispatcher.RegisterPreHook(notification.NewLogHook("received"))
	dispatcher.RegisterPostHook(notification.NewLogHook("finished"))

	handler := webhook.NewHandler(
		notification.NewParser(),
		notification.NewAuthorizationValidator(credStore),
		notifRepo,
		dispatcher,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+cfg.WebhookPath, handler.HandleNotifications)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(mux),
		),
	)
}
