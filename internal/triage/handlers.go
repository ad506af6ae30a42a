package triage

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"smart-todo-backend/internal/auth"
	"smart-todo-backend/internal/res"
)

// FallbackHeader is set on responses produced without the model.
const FallbackHeader = "X-AI-Fallback"

const analysisWindow = 30 * 24 * time.Hour

// HistoryStore reads the caller's task history. todos.Store implements it.
type HistoryStore interface {
	RecentTasks(ctx context.Context, userID string, limit int) ([]RecentTask, error)
	TaskRecordsSince(ctx context.Context, userID string, since time.Time) ([]TaskRecord, error)
}

type suggestRequest struct {
	Input string `json:"input" validate:"required"`
}

type categorizeRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

func SuggestTasksHandler(svc *Service, store HistoryStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body suggestRequest
		if err := res.Decode(r, &body); err != nil {
			res.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		body.Input = strings.TrimSpace(body.Input)
		if body.Input == "" {
			res.Error(w, "input is required", http.StatusBadRequest)
			return
		}

		history, err := store.RecentTasks(r.Context(), uid, maxHistoryItems)
		if err != nil {
			// suggestions still work without history
			log.Warn("load task history failed", "user_id", uid, "error", err)
			history = nil
		}

		out := svc.SuggestTasks(r.Context(), body.Input, history)
		markSource(w, out.Source)
		res.JSON(w, out, http.StatusOK)
	}
}

func SmartCategorizeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body categorizeRequest
		if err := res.Decode(r, &body); err != nil {
			res.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		title := strings.TrimSpace(body.Title)
		if title == "" {
			res.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		out := svc.CategorizeTask(r.Context(), title, strings.TrimSpace(body.Description))
		markSource(w, out.Source)
		res.JSON(w, out, http.StatusOK)
	}
}

func AnalyzeProductivityHandler(svc *Service, store HistoryStore, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tasks, err := store.TaskRecordsSince(r.Context(), uid, svc.now().Add(-analysisWindow))
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("load task records failed", "user_id", uid, "error", err)
			res.Error(w, "failed to load tasks", http.StatusInternalServerError)
			return
		}

		out := svc.AnalyzeProductivity(r.Context(), tasks)
		markSource(w, out.Source)
		res.JSON(w, out, http.StatusOK)
	}
}

func markSource(w http.ResponseWriter, s Source) {
	if s == SourceFallback {
		w.Header().Set(FallbackHeader, "1")
	}
}
