package sqldb

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

// RunMigrations applies the migrations found in the driver's directory of fsys.
//
// The migrate instance is intentionally not closed: its database driver
// wraps db and closing it would close the caller's connection pool.
func RunMigrations(db *sqlx.DB, fsys fs.FS) error {
	const op = "sqldb.RunMigrations"

	var (
		dir string
		drv database.Driver
		err error
	)

	switch db.DriverName() {
	case DriverSQLite:
		dir = "sqlite"
		drv, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	case DriverPostgres:
		dir = "postgres"
		drv, err = pgx.WithInstance(db.DB, &pgx.Config{})
	default:
		return fmt.Errorf("%s: unsupported driver %q", op, db.DriverName())
	}
	if err != nil {
		return fmt.Errorf("%s: failed to initialize database driver: %w", op, err)
	}

	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize migration source: %w", op, err)
	}
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, db.DriverName(), drv)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize migrations: %w", op, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return nil
}
