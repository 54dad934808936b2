package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/pkg/config"
)

// Migrate applies every pending up migration. When cfg.MigrationsDir is set
// the files are read from disk, otherwise from embedded. It opens its own
// connection because the migrate driver closes it when done.
func Migrate(cfg config.DatabaseConfig, embedded fs.FS, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	var m *migrate.Migrate
	if cfg.MigrationsDir != "" {
		m, err = migrate.NewWithDatabaseInstance("file://"+cfg.MigrationsDir, "postgres", driver)
	} else {
		source, srcErr := iofs.New(embedded, ".")
		if srcErr != nil {
			_ = driver.Close()
			return fmt.Errorf("open embedded migrations: %w", srcErr)
		}
		m, err = migrate.NewWithInstance("iofs", source, "postgres", driver)
	}
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := m.Up()
	version, dirty, versionErr := m.Version()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	if versionErr == nil && dirty {
		return fmt.Errorf("database schema version %d is dirty", version)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("no new migrations to apply", zap.Uint("version", version))
		return nil
	}
	logger.Info("database migrations applied", zap.Uint("version", version))
	return nil
}
