package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_ADDRESS", ":9090")
	t.Setenv("DB_NAME", "todos")
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-legacy")
	t.Setenv("CHECK_INTERVAL", "1h")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Address)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "todos", cfg.DB.Name)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-pro", cfg.AI.Model)
	assert.Equal(t, "sk-legacy", cfg.AI.APIKey)
	assert.Equal(t, time.Hour, cfg.CheckInterval)
	assert.Equal(t, "default-user", cfg.Auth.DefaultUserID)
}

func TestLoad_YAMLAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("AI_MODEL", "")

	require.NoError(t, os.WriteFile(".env", []byte("JWT_SECRET=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("JWT_SECRET") })

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: DEBUG
http:
  address: ":7000"
db:
  host: db.internal
  port: 6543
  user: app
  name: todos
ai:
  provider: openai
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, ":7000", cfg.HTTP.Address)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
	assert.Equal(t, "host=db.internal port=6543 user=app password= dbname=todos sslmode=disable", cfg.DB.ConnString())
}
