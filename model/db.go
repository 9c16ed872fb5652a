package model

import (
	"fmt"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the main structure of the model. All data access goes through it;
// controllers never use the database directly.
type Store struct {
	db     *gorm.DB
	Config *Config
}

type Config struct {
	Basedir      string
	CookieSecret string
	ExportDir    string
	MailAPIKey   string
	MailSecret   string
	MailFrom     string
	Mode         string
	Port         int
	Servers      map[string]Server
}

type Server struct {
	Database   string
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBLogger   string
}

// gormLoggerFor picks the GORM log level: explicit per-server setting first,
// otherwise verbose in development and silent elsewhere.
func gormLoggerFor(cfg *Config, svr Server) *gorm.Config {
	gormConfig := &gorm.Config{}
	switch svr.DBLogger {
	case "info":
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case "silent":
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	default:
		if cfg.Mode == "development" {
			gormConfig.Logger = logger.Default.LogMode(logger.Info)
		} else {
			gormConfig.Logger = logger.Default.LogMode(logger.Silent)
		}
	}
	return gormConfig
}

func (s *Store) autoMigrate() error {
	var err error
	if err = s.db.AutoMigrate(&Settings{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&Party{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&Contact{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&BankAccount{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&Tax{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&PaymentMethod{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&Carrier{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&Document{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&DocumentLine{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&Receipt{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&DocumentFormat{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&FormatColumn{}); err != nil {
		return err
	}
	if err = s.db.AutoMigrate(&APIToken{}); err != nil {
		return err
	}
	return nil
}

// InitDatabase opens the configured database and migrates the schema.
func InitDatabase(cfg *Config) (*Store, error) {
	var err error

	s := &Store{Config: cfg}
	svr := cfg.Servers[cfg.Mode]
	gormConfig := gormLoggerFor(cfg, svr)

	switch svr.Database {
	case "sqlite3":
		filename := svr.DBName
		if !filepath.IsAbs(filename) {
			filename = filepath.Join("db", filename)
		}
		s.db, err = gorm.Open(sqlite.Open(filename), gormConfig)
		if err != nil {
			return nil, err
		}
	case "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=5432 sslmode=disable TimeZone=UTC",
			svr.DBHost, svr.DBUser, svr.DBPassword, svr.DBName)
		s.db, err = gorm.Open(postgres.Open(dsn), gormConfig)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown database %q", svr.Database)
	}
	if err = s.autoMigrate(); err != nil {
		return nil, err
	}
	return s, nil
}
