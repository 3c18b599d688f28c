package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/models"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenSQLiteInMemoryAndMigrate(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))

	// The composite membership index must reject duplicate (user, workspace) pairs.
	user := models.User{Username: "ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	ws := models.Workspace{Name: "Research"}
	require.NoError(t, db.Create(&ws).Error)

	first := models.Membership{UserID: user.ID, WorkspaceID: ws.ID, Role: models.RoleOwner}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Membership{UserID: user.ID, WorkspaceID: ws.ID, Role: models.RoleParticipant}
	require.Error(t, db.Create(&dup).Error)
}

func TestAutoMigrateRejectsNilHandle(t *testing.T) {
	require.Error(t, AutoMigrate(nil))
}

func TestBuildSQLiteDSN(t *testing.T) {
	dsn, err := buildSQLiteDSN(Config{Path: ":memory:"})
	require.NoError(t, err)
	require.Contains(t, dsn, "file::memory:?cache=shared")
	require.Contains(t, dsn, "_foreign_keys=1")
	require.Contains(t, dsn, "_busy_timeout=5000")

	dir := t.TempDir()
	dsn, err = buildSQLiteDSN(Config{
		Path:    dir + "/hive.db",
		Options: map[string]string{"_busy_timeout": "100"},
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "hive.db")
	require.Contains(t, dsn, "_journal_mode=WAL")
	require.Contains(t, dsn, "_busy_timeout=100")

	dsn, err = buildSQLiteDSN(Config{DSN: "file:override.db?_foreign_keys=1"})
	require.NoError(t, err)
	require.Equal(t, "file:override.db?_foreign_keys=1", dsn)
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "taskhive",
		Password: "secret",
		Name:     "taskhive",
		Host:     "db.internal",
		Port:     6543,
	})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=db.internal")
	require.Contains(t, dsn, "port=6543")
	require.Contains(t, dsn, "sslmode=disable")

	_, err = buildPostgresDSN(Config{})
	require.Error(t, err)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{User: "root", Password: "pw", Name: "taskhive"})
	require.NoError(t, err)
	require.Contains(t, dsn, "root:pw@tcp(127.0.0.1:3306)/taskhive")
	require.Contains(t, dsn, "parseTime=True")
}
