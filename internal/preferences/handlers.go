package preferences

import (
	"context"
	"log/slog"
	"net/http"

	"smart-todo-backend/internal/auth"
	"smart-todo-backend/internal/res"
)

type Repository interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Update(ctx context.Context, userID string, patch Patch) (Preferences, error)
}

func GetHandler(repo Repository, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := repo.Get(r.Context(), uid)
		if err != nil {
			log.Error("get preferences failed", "user_id", uid, "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		res.JSON(w, p, http.StatusOK)
	}
}

func UpdateHandler(repo Repository, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var patch Patch
		if err := res.Decode(r, &patch); err != nil {
			res.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		p, err := repo.Update(r.Context(), uid, patch)
		if err != nil {
			log.Error("update preferences failed", "user_id", uid, "error", err)
			res.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		res.JSON(w, p, http.StatusOK)
	}
}

type Profile struct {
	ID       string  `json:"id"`
	Email    *string `json:"email"`
	ImageURL string  `json:"imageUrl"`
}

// ProfileHandler describes the caller from the identity on the request.
func ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p := Profile{ID: id.UserID, ImageURL: id.ImageURL}
		if id.Email != "" {
			p.Email = &id.Email
		}
		res.JSON(w, p, http.StatusOK)
	}
}
