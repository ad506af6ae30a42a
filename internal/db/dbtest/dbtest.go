// Package dbtest opens the Postgres database used by store integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"smart-todo-backend/internal/db"
)

// EnvVar names the connection string; tests skip when it is unset.
const EnvVar = "TEST_DATABASE_URL"

// Open connects, ensures the schema and empties every table.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(EnvVar)
	if dsn == "" {
		t.Skipf("%s not set", EnvVar)
	}

	ctx := context.Background()
	dbx, err := db.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbx.Close() })

	require.NoError(t, db.EnsureSchema(ctx, dbx))
	_, err = dbx.ExecContext(ctx, `TRUNCATE todos, activity_log, notifications, user_preferences RESTART IDENTITY`)
	require.NoError(t, err)

	return dbx
}
