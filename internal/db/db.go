// Package db opens the SQL database, applies the schema and seeds the
// default profiles.
package db

import (
	"fmt"
	"regexp"
	"time"

	"github.com/diewo77/salescrm/internal/config"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

var passwordRe = regexp.MustCompile(`(password=|://[^:/@]+:)([^\s@]+)`)

// MaskDSN hides the password of a key=value or URL DSN.
func MaskDSN(dsn string) string {
	return passwordRe.ReplaceAllString(dsn, `${1}***`)
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}

// Open connects with retries so the server can start before Postgres is
// ready. SQL logging goes through log at Info level when cfg.Debug is set.
func Open(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var gdb *gorm.DB
	for i := 1; i <= connectAttempts; i++ {
		gdb, err = gorm.Open(dial, gormCfg)
		if err == nil {
			err = gdb.Exec("SELECT 1").Error
		}
		if err == nil {
			break
		}
		log.WithError(err).WithField("attempt", i).Warn("database not ready, retrying")
		time.Sleep(connectBackoff)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
	}
	log.WithFields(logrus.Fields{"driver": cfg.Driver, "dsn": MaskDSN(cfg.DSN())}).Info("database connected")
	return gdb, nil
}
