package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/facturante/erp/controller"
	"github.com/facturante/erp/model"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pelletier/go-toml/v2"
)

var runMigrations = flag.Bool("migrate", false, "run pending schema migrations and exit")

func runMigrate(cfg *model.Config) error {
	m, err := migrate.New("file://"+migrationsDir(), migrateDSN(cfg))
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

func dothings() error {
	flag.Parse()
	data, err := os.ReadFile("config.toml")
	if err != nil {
		return err
	}
	cfg := &model.Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if *runMigrations {
		return runMigrate(cfg)
	}
	store, err := model.InitDatabase(cfg)
	if err != nil {
		return err
	}
	return controller.NewController(store)
}

func main() {
	if err := dothings(); err != nil {
		log.Fatal(err)
	}
}
