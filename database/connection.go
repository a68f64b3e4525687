package database

import (
	"fmt"
	"time"

	"comercia/pkg/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type Config interface {
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	EnableLog() bool
	LogLevel() string
}

func getDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host(),
		cfg.User(),
		cfg.Password(),
		cfg.Name(),
		cfg.Port(),
		cfg.SSLMode())
}

func newLogger(l log.Logger, cfg Config) logger.Interface {
	var logLevel logger.LogLevel
	if cfg.EnableLog() {
		switch cfg.LogLevel() {
		case "info":
			logLevel = logger.Info
		case "warn":
			logLevel = logger.Warn
		case "error":
			logLevel = logger.Error
		case "silent":
			logLevel = logger.Silent
		default:
			logLevel = logger.Warn
		}
	} else {
		logLevel = logger.Silent
	}

	return logger.New(l, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  true,
	})
}

func Connect(cfg Config, l log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  getDSN(cfg),
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{},
		Logger:         newLogger(l, cfg),
		// TranslateError lets repositories detect unique-index conflicts via
		// gorm.ErrDuplicatedKey instead of driver-specific error codes.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sDB.SetMaxIdleConns(cfg.MaxIdleConns())
	sDB.SetMaxOpenConns(cfg.MaxOpenConns())
	sDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	return db, nil
}
