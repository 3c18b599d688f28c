package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteDefaults keep referential integrity enforced and make concurrent
// writers queue on the database lock instead of failing with SQLITE_BUSY.
var sqliteDefaults = map[string]string{
	"_foreign_keys": "1",
	"_busy_timeout": "5000",
}

func openSQLite(cfg Config) (*gorm.DB, error) {
	dsn, err := buildSQLiteDSN(cfg)
	if err != nil {
		return nil, err
	}

	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func buildSQLiteDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" || strings.EqualFold(path, ":memory:") {
		// cache=shared so every pooled connection sees the same in-memory
		// database.
		return "file::memory:?cache=shared&" + encodeOptions(sqliteDefaults, cfg.Options, "&"), nil
	}

	if err := ensureDir(path); err != nil {
		return "", err
	}

	defaults := map[string]string{"_journal_mode": "WAL"}
	for key, value := range sqliteDefaults {
		defaults[key] = value
	}
	return fmt.Sprintf("file:%s?%s", filepath.ToSlash(path), encodeOptions(defaults, cfg.Options, "&")), nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
