package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
auth:
  jwt_secret: file-secret
  access_token_ttl: 30m
database:
  driver: postgres
  host: db.internal
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	require.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	require.Equal(t, "postgres", cfg.Database.Driver)

	// Environment wins over the file.
	t.Setenv("TASKHIVE_SERVER_PORT", "9100")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
}
