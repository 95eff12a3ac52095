package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Status describes the schema state of a database
type Status struct {
	CurrentVersion uint `json:"currentVersion"`
	LatestVersion  uint `json:"latestVersion"`
	Dirty          bool `json:"dirty"`
	Pending        bool `json:"pending"`
}

// Migrator applies the embedded migrations for one dialect.
// It never closes the *sql.DB it was given.
type Migrator struct {
	m       *migrate.Migrate
	dir     string
	release func() error
}

// New builds a migrator for the given dialect ("sqlite" or "postgres")
func New(ctx context.Context, db *sql.DB, dialect string) (*Migrator, error) {
	var (
		driver  database.Driver
		release = func() error { return nil }
		err     error
	)

	switch dialect {
	case "sqlite":
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
	case "postgres":
		// a dedicated connection keeps the driver from owning the pool
		conn, connErr := db.Conn(ctx)
		if connErr != nil {
			return nil, fmt.Errorf("failed to acquire migration connection: %w", connErr)
		}
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		release = conn.Close
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}

	source, err := iofs.New(migrationsFS, dialect)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect, driver)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return &Migrator{m: m, dir: dialect, release: release}, nil
}

// Up applies all pending migrations
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down reverts the most recent migration
func (mg *Migrator) Down() error {
	if err := mg.m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to revert migration: %w", err)
	}
	return nil
}

// Status reports the applied and available schema versions
func (mg *Migrator) Status() (*Status, error) {
	version, dirty, err := mg.m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	latest, err := LatestVersion(mg.dir)
	if err != nil {
		return nil, err
	}

	return &Status{
		CurrentVersion: version,
		LatestVersion:  latest,
		Dirty:          dirty,
		Pending:        version < latest,
	}, nil
}

// Release frees the connection held by the migrator
func (mg *Migrator) Release() error {
	return mg.release()
}

// LatestVersion returns the highest migration version embedded for a dialect
func LatestVersion(dialect string) (uint, error) {
	source, err := iofs.New(migrationsFS, dialect)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	defer source.Close()

	latest, err := source.First()
	if err != nil {
		return 0, nil
	}
	for {
		next, err := source.Next(latest)
		if err != nil {
			break
		}
		latest = next
	}
	return latest, nil
}

// Run applies all pending migrations in one call
func Run(ctx context.Context, db *sql.DB, dialect string) error {
	mg, err := New(ctx, db, dialect)
	if err != nil {
		return err
	}
	defer mg.Release()

	return mg.Up()
}
