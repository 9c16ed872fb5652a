//go:build sqlite

package main

import (
	"path/filepath"

	"github.com/facturante/erp/model"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3" // CGO!
)

func migrationsDir() string { return "db/migrations/sqlite" }

// migrateDSN points golang-migrate at the same file InitDatabase opens:
// absolute paths pass through, everything else lives under db/.
func migrateDSN(cfg *model.Config) string {
	svr := cfg.Servers[cfg.Mode]
	dbPath := svr.DBName
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join("db", dbPath)
	}
	return "sqlite3://" + filepath.ToSlash(dbPath) + "?_foreign_keys=on&_journal_mode=WAL"
}
