package db

import (
	"errors"
	"fmt"

	"github.com/diewo77/salescrm/internal/config"
	"github.com/diewo77/salescrm/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// MigrationsURL is where the SQL migrations live, relative to the working
// directory.
const MigrationsURL = "file://migrations"

// Models lists every table managed through AutoMigrate.
func Models() []any {
	return []any{
		&models.Permission{},
		&models.Profile{},
		&models.User{},
		&models.Apartment{},
		&models.Client{},
	}
}

// Migrate brings the schema up to date: SQL migrations when enabled for
// Postgres, AutoMigrate otherwise. Seed data follows when requested.
func Migrate(gdb *gorm.DB, cfg *config.Config) error {
	if cfg.App.Migrations && cfg.Database.Driver != "sqlite" {
		if err := RunSQLMigrations(cfg.Database.URL()); err != nil {
			return fmt.Errorf("sql migrations: %w", err)
		}
	} else {
		for _, m := range Models() {
			if err := gdb.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range []string{"users", "profiles", "apartamentos", "clientes"} {
		if !gdb.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	if err := SeedProfiles(gdb); err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}
	if cfg.App.Seed {
		if err := SeedApartments(gdb); err != nil {
			return fmt.Errorf("seed apartments: %w", err)
		}
	}
	return nil
}

// RunSQLMigrations applies ./migrations to the Postgres database at url.
func RunSQLMigrations(url string) error {
	m, err := migrate.New(MigrationsURL, url)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
