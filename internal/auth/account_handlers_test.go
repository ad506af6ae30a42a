package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-todo-backend/internal/db/dbtest"
)

func TestDeleteAccountDataHandler(t *testing.T) {
	dbx := dbtest.Open(t)
	_, err := dbx.Exec(`INSERT INTO todos (title, user_id) VALUES ('a', 'u1'), ('b', 'u1'), ('c', 'u2')`)
	require.NoError(t, err)
	_, err = dbx.Exec(`INSERT INTO user_preferences (user_id) VALUES ('u1')`)
	require.NoError(t, err)

	h := DeleteAccountDataHandler(dbx, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := httptest.NewRequest(http.MethodDelete, "/user/data", nil)
	w := httptest.NewRecorder()
	h(w, r.WithContext(WithUserID(r.Context(), "u1")))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Deleted map[string]int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Deleted["todos"])
	assert.Equal(t, int64(1), body.Deleted["user_preferences"])

	var left int
	require.NoError(t, dbx.Get(&left, `SELECT COUNT(*) FROM todos`))
	assert.Equal(t, 1, left)
}
