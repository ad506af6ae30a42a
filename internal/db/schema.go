package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is idempotent; every statement is safe to run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS todos (
		id          BIGSERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		completed   BOOLEAN NOT NULL DEFAULT FALSE,
		priority    INTEGER NOT NULL DEFAULT 1 CHECK (priority BETWEEN 1 AND 3),
		category    TEXT,
		due_date    TIMESTAMPTZ,
		user_id     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user_created ON todos (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_due_open ON todos (due_date) WHERE completed = FALSE`,

	`CREATE TABLE IF NOT EXISTS activity_log (
		id          BIGSERIAL PRIMARY KEY,
		user_id     TEXT NOT NULL,
		action      TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id   BIGINT NOT NULL,
		details     JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         BIGSERIAL PRIMARY KEY,
		user_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL,
		type       TEXT NOT NULL DEFAULT 'info' CHECK (type IN ('info', 'warning', 'error', 'success')),
		read       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications (user_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id             TEXT PRIMARY KEY,
		email_notifications BOOLEAN NOT NULL DEFAULT TRUE,
		push_notifications  BOOLEAN NOT NULL DEFAULT TRUE,
		reminder_time       INTEGER NOT NULL DEFAULT 9 CHECK (reminder_time BETWEEN 0 AND 23),
		timezone            TEXT NOT NULL DEFAULT 'UTC',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables the service reads and writes.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
