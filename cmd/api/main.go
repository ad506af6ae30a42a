package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"

	"smart-todo-backend/internal/activity"
	"smart-todo-backend/internal/ai"
	"smart-todo-backend/internal/auth"
	"smart-todo-backend/internal/config"
	"smart-todo-backend/internal/db"
	"smart-todo-backend/internal/middleware"
	"smart-todo-backend/internal/notifications"
	"smart-todo-backend/internal/preferences"
	"smart-todo-backend/internal/todos"
	"smart-todo-backend/internal/triage"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "server configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	log := mustMakeLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DB.ConnString())
	if err != nil {
		log.Error("cannot connect to postgres", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()
	log.Info("connected to postgres", "host", cfg.DB.Host, "db", cfg.DB.Name)

	if cfg.DB.AutoMigrate {
		if err := db.EnsureSchema(ctx, database); err != nil {
			log.Error("cannot ensure schema", "error", err)
			os.Exit(1)
		}
	}

	model := ai.New(ai.Config{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		BaseURL:     cfg.AI.BaseURL,
		Timeout:     cfg.AI.Timeout,
		Temperature: cfg.AI.Temperature,
	})
	if cfg.AI.APIKey == "" {
		log.Warn("no AI API key configured, triage will use keyword fallbacks", "provider", cfg.AI.Provider)
	}

	todoStore := todos.NewStore(database)
	noteStore := notifications.NewStore(database)
	checker := notifications.NewChecker(todoStore, noteStore, log)

	deps := Deps{
		Auth:          auth.New([]byte(cfg.Auth.JWTSecret), cfg.Auth.DefaultUserID),
		CronSecret:    cfg.Auth.CronSecret,
		Todos:         todos.NewHandlers(todoStore, activity.New(database, log), log),
		History:       todoStore,
		Triage:        triage.NewService(model, log),
		Notifications: noteStore,
		Checker:       checker,
		Preferences:   preferences.NewStore(database),
		DeleteAccount: auth.DeleteAccountDataHandler(database, log),
	}

	mux := http.NewServeMux()
	Register(mux, log, deps)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Platform", "X-App-Version", "X-Session-Id", middleware.RequestIDHeader},
		ExposedHeaders:   []string{triage.FallbackHeader, middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler:           middleware.RequestLog(log, c.Handler(mux)),
	}

	if cfg.CheckInterval > 0 {
		go checker.Run(ctx, cfg.CheckInterval)
		log.Info("deadline checker scheduled", "every", cfg.CheckInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api http server", "address", server.Addr, "ai_provider", cfg.AI.Provider, "ai_model", model.Model())
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func mustMakeLogger(logLevel string) *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
