//go:build !postgres && !sqlite

package main

import "github.com/facturante/erp/model"

const noDriverMsg = "schema migrations need a database driver, build with -tags sqlite or -tags postgres"

func migrationsDir() string             { panic(noDriverMsg) }
func migrateDSN(_ *model.Config) string { panic(noDriverMsg) }
