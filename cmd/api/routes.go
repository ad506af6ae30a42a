package main

import (
	"log/slog"
	"net/http"

	"smart-todo-backend/internal/auth"
	"smart-todo-backend/internal/notifications"
	"smart-todo-backend/internal/preferences"
	"smart-todo-backend/internal/todos"
	"smart-todo-backend/internal/triage"
)

type Deps struct {
	Auth          auth.Middleware
	CronSecret    string
	Todos         *todos.Handlers
	History       triage.HistoryStore
	Triage        *triage.Service
	Notifications notifications.Repository
	Checker       *notifications.Checker
	Preferences   preferences.Repository
	DeleteAccount http.HandlerFunc
}

func Register(mux *http.ServeMux, log *slog.Logger, d Deps) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	user := d.Auth.Wrap

	mux.HandleFunc("GET /todos", user(d.Todos.List))
	mux.HandleFunc("POST /todos", user(d.Todos.Create))
	mux.HandleFunc("GET /todos/stats", user(d.Todos.Stats))
	mux.HandleFunc("PUT /todos/{id}", user(d.Todos.Update))
	mux.HandleFunc("DELETE /todos/{id}", user(d.Todos.Delete))

	mux.HandleFunc("POST /ai/suggest-tasks", user(triage.SuggestTasksHandler(d.Triage, d.History, log)))
	mux.HandleFunc("POST /ai/smart-categorize", user(triage.SmartCategorizeHandler(d.Triage)))
	mux.HandleFunc("GET /ai/analyze-productivity", user(triage.AnalyzeProductivityHandler(d.Triage, d.History, log)))

	mux.HandleFunc("GET /notifications", user(notifications.ListHandler(d.Notifications, log)))
	mux.HandleFunc("POST /notifications", user(notifications.CreateHandler(d.Notifications, log)))
	mux.HandleFunc("PUT /notifications/read-all", user(notifications.MarkAllReadHandler(d.Notifications, log)))
	mux.HandleFunc("PUT /notifications/{id}/read", user(notifications.MarkReadHandler(d.Notifications, log)))

	mux.HandleFunc("GET /user/preferences", user(preferences.GetHandler(d.Preferences, log)))
	mux.HandleFunc("PUT /user/preferences", user(preferences.UpdateHandler(d.Preferences, log)))
	mux.HandleFunc("GET /user/profile", user(preferences.ProfileHandler()))
	mux.HandleFunc("DELETE /user/data", user(d.DeleteAccount))

	mux.HandleFunc("POST /cron/check-overdue", auth.RequireCronSecret(d.CronSecret, notifications.CheckOverdueHandler(d.Checker, log)))
}
