package sqlstore

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// NewMigrator opens a dedicated connection for schema migrations. Closing the
// migrator closes that connection.
func NewMigrator(driver, dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations for %s: %w", driver, err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s for migration: %w", driver, err)
	}

	var instance database.Driver
	switch driver {
	case DriverSQLite:
		instance, err = sqlite.WithInstance(db, &sqlite.Config{})
	case DriverPostgres:
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		err = fmt.Errorf("unsupported db driver %q", driver)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create %s migration driver: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, instance)
	if err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration.
func MigrateUp(driver, dsn string) error {
	m, err := NewMigrator(driver, dsn)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
