package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const columns = `id, user_id, title, message, type, read, created_at, expires_at`

type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewStore(dbx *sqlx.DB) *Store {
	return &Store{db: dbx, now: time.Now}
}

// List returns unexpired notifications, newest first.
func (s *Store) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) (ListResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	offset = max(offset, 0)

	where := `user_id = $1 AND (expires_at IS NULL OR expires_at > $2)`
	if unreadOnly {
		where += ` AND read = false`
	}
	now := s.now().UTC()

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications WHERE `+where, userID, now); err != nil {
		return ListResult{}, fmt.Errorf("count notifications: %w", err)
	}

	out := []Notification{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT `+columns+`
		FROM notifications
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, now, limit, offset)
	if err != nil {
		return ListResult{}, fmt.Errorf("list notifications: %w", err)
	}

	return ListResult{Notifications: out, Total: total}, nil
}

func (s *Store) Create(ctx context.Context, userID string, in CreateInput) (Notification, error) {
	typ := in.Type
	if typ == "" {
		typ = TypeInfo
	}

	var n Notification
	err := s.db.GetContext(ctx, &n, `
		INSERT INTO notifications (user_id, title, message, type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+columns,
		userID, in.Title, in.Message, typ, in.ExpiresAt, s.now().UTC(),
	)
	if err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (s *Store) MarkRead(ctx context.Context, userID string, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE notifications SET read = true WHERE user_id = $1 AND read = false
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// CreateUnlessRecent inserts the notification unless the user already got
// the exact same type and message after since. It reports whether a row was
// inserted. A per-user advisory lock serializes concurrent checkers.
func (s *Store) CreateUnlessRecent(ctx context.Context, userID string, in CreateInput, since time.Time) (bool, error) {
	typ := in.Type
	if typ == "" {
		typ = TypeInfo
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin notification tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID); err != nil {
		return false, fmt.Errorf("lock notifications: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO notifications (user_id, title, message, type, expires_at, created_at)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::timestamptz, $6::timestamptz
		WHERE NOT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1::text AND type = $4::text AND message = $3::text AND created_at > $7::timestamptz
		)
	`, userID, in.Title, in.Message, typ, in.ExpiresAt, s.now().UTC(), since)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit notification: %w", err)
	}
	return n > 0, nil
}
