package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	query string
	args  []any
	err   error
}

func (r *recordingExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	r.query, r.args = query, args
	return nil, r.err
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Platform", " iOS ")
	r.Header.Set("X-App-Version", "1.4.0")
	r.Header.Set("X-Session-Id", "sess-1")

	assert.Equal(t, Envelope{SessionID: "sess-1", Platform: "ios", AppVersion: "1.4.0"}, FromRequest(r))

	r.Header.Set("X-Platform", "desktop")
	assert.Equal(t, "unknown", FromRequest(r).Platform)
}

func TestRecord(t *testing.T) {
	db := &recordingExecer{}
	l := New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return at }

	env := Envelope{UserID: "u1", Platform: "web", SessionID: "s"}
	l.Record(context.Background(), env, ActionCreated, EntityTodo, 7, map[string]any{"title": "Buy milk"})

	require.Len(t, db.args, 6)
	assert.Equal(t, "u1", db.args[0])
	assert.Equal(t, ActionCreated, db.args[1])
	assert.Equal(t, EntityTodo, db.args[2])
	assert.Equal(t, int64(7), db.args[3])
	assert.Equal(t, at, db.args[5])

	var details map[string]any
	require.NoError(t, json.Unmarshal([]byte(db.args[4].(string)), &details))
	assert.Equal(t, map[string]any{"title": "Buy milk", "platform": "web", "session_id": "s"}, details)
}

func TestRecord_FailureIsSwallowed(t *testing.T) {
	db := &recordingExecer{err: errors.New("relation does not exist")}
	l := New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NotPanics(t, func() {
		l.Record(context.Background(), Envelope{UserID: "u1"}, ActionDeleted, EntityTodo, 1, nil)
	})
	assert.NotEmpty(t, db.query)
}

func TestRecord_SkipsWithoutUser(t *testing.T) {
	db := &recordingExecer{}
	New(db, slog.New(slog.NewTextHandler(io.Discard, nil))).Record(context.Background(), Envelope{}, ActionCreated, EntityTodo, 1, nil)
	assert.Empty(t, db.query)

	var nilLog *Recorder
	assert.NotPanics(t, func() { nilLog.Record(context.Background(), Envelope{UserID: "u"}, ActionCreated, EntityTodo, 1, nil) })
}
