package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCompleted = "completed"
	ActionDeleted   = "deleted"

	EntityTodo = "todo"
)

// Envelope is the client context stored with every entry.
type Envelope struct {
	UserID     string
	SessionID  string
	Platform   string
	AppVersion string
}

// FromRequest reads the envelope headers. Unknown platforms collapse to "unknown".
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web":
	default:
		platform = "unknown"
	}

	return Envelope{
		SessionID:  strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:   platform,
		AppVersion: strings.TrimSpace(r.Header.Get("X-App-Version")),
	}
}

// Execer is the part of *sqlx.DB the log needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Recorder struct {
	db  Execer
	log *slog.Logger
	now func() time.Time
}

func New(db Execer, log *slog.Logger) *Recorder {
	return &Recorder{db: db, log: log, now: time.Now}
}

// Record writes one activity entry. Failures are logged and swallowed so
// they never break the calling flow.
func (l *Recorder) Record(ctx context.Context, env Envelope, action, entityType string, entityID int64, details map[string]any) {
	if l == nil || action == "" || env.UserID == "" {
		return
	}

	b, err := json.Marshal(mergeEnvelope(env, details))
	if err != nil {
		l.log.Warn("activity details not serializable", "action", action, "error", err)
		return
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO activity_log (user_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
	`, env.UserID, action, entityType, entityID, string(b), l.now().UTC())
	if err != nil {
		l.log.Warn("activity log insert failed",
			"user_id", env.UserID, "action", action, "entity_type", entityType, "entity_id", entityID, "error", err)
	}
}

func mergeEnvelope(env Envelope, details map[string]any) map[string]any {
	out := make(map[string]any, len(details)+3)
	for k, v := range details {
		out[k] = v
	}
	out["platform"] = env.Platform
	if env.AppVersion != "" {
		out["app_version"] = env.AppVersion
	}
	if env.SessionID != "" {
		out["session_id"] = env.SessionID
	}
	return out
}
