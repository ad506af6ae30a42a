package notifications

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"smart-todo-backend/internal/auth"
	"smart-todo-backend/internal/res"
)

type Repository interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) (ListResult, error)
	Create(ctx context.Context, userID string, in CreateInput) (Notification, error)
	MarkRead(ctx context.Context, userID string, id int64) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

func ListHandler(repo Repository, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		unreadOnly, _ := strconv.ParseBool(q.Get("unreadOnly"))
		limit, err := intParam(q.Get("limit"))
		if err != nil {
			res.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		offset, err := intParam(q.Get("offset"))
		if err != nil {
			res.Error(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}

		out, err := repo.List(r.Context(), uid, unreadOnly, limit, offset)
		if err != nil {
			log.Error("list notifications failed", "user_id", uid, "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		res.JSON(w, out, http.StatusOK)
	}
}

func CreateHandler(repo Repository, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var in CreateInput
		if err := res.Decode(r, &in); err != nil {
			res.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		n, err := repo.Create(r.Context(), uid, in)
		if err != nil {
			log.Error("create notification failed", "user_id", uid, "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		res.JSON(w, n, http.StatusCreated)
	}
}

func MarkReadHandler(repo Repository, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id <= 0 {
			res.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := repo.MarkRead(r.Context(), uid, id); err != nil {
			if errors.Is(err, ErrNotFound) {
				res.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			log.Error("mark notification read failed", "user_id", uid, "id", id, "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		res.JSON(w, map[string]any{"ok": true}, http.StatusOK)
	}
}

func MarkAllReadHandler(repo Repository, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := repo.MarkAllRead(r.Context(), uid)
		if err != nil {
			log.Error("mark all notifications read failed", "user_id", uid, "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		res.JSON(w, map[string]any{"ok": true, "updated": n}, http.StatusOK)
	}
}

// CheckOverdueHandler runs one deadline pass (POST /cron/check-overdue).
func CheckOverdueHandler(c *Checker, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		created, err := c.Check(r.Context())
		if err != nil {
			log.Error("deadline check failed", "created", created, "error", err)
			res.Error(w, "deadline check failed", http.StatusInternalServerError)
			return
		}
		res.JSON(w, map[string]any{"created": created}, http.StatusOK)
	}
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}
