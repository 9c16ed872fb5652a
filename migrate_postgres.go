//go:build postgres

package main

import (
	"net/url"

	"github.com/facturante/erp/model"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

func migrationsDir() string { return "db/migrations/postgres" }

// migrateDSN builds the connection URL with net/url so credentials with
// reserved characters survive.
func migrateDSN(cfg *model.Config) string {
	svr := cfg.Servers[cfg.Mode]
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(svr.DBUser, svr.DBPassword),
		Host:     svr.DBHost + ":5432",
		Path:     "/" + svr.DBName,
		RawQuery: "sslmode=disable&timezone=UTC",
	}
	return u.String()
}
