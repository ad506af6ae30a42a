package auth

import (
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"smart-todo-backend/internal/res"
)

// DeleteAccountDataHandler erases everything stored for the caller.
func DeleteAccountDataHandler(dbx *sqlx.DB, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			res.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tx, err := dbx.BeginTxx(r.Context(), nil)
		if err != nil {
			res.Error(w, "db begin failed", http.StatusInternalServerError)
			return
		}
		defer func() { _ = tx.Rollback() }()

		deleted := map[string]int64{}
		for _, table := range []string{"notifications", "activity_log", "todos", "user_preferences"} {
			// table names come from the fixed list above
			result, err := tx.ExecContext(r.Context(), `DELETE FROM `+table+` WHERE user_id = $1`, uid)
			if err != nil {
				log.Error("delete account data failed", "table", table, "user_id", uid, "error", err)
				res.Error(w, "delete "+table+" failed", http.StatusInternalServerError)
				return
			}
			n, _ := result.RowsAffected()
			deleted[table] = n
		}

		if err := tx.Commit(); err != nil {
			res.Error(w, "db commit failed", http.StatusInternalServerError)
			return
		}

		log.Info("account data deleted", "user_id", uid)
		res.JSON(w, map[string]any{"ok": true, "deleted": deleted}, http.StatusOK)
	}
}
