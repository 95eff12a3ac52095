package config

import (
	"context"
	"fmt"
	"os"

	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore"
)

// CreateRepository opens and migrates the store described by the configuration
func CreateRepository(ctx context.Context, config *Config) (*sqlstore.Store, error) {
	return openStore(ctx, config, false)
}

// OpenUnmigrated opens the store without touching the schema, for the migrate command
func OpenUnmigrated(ctx context.Context, config *Config) (*sqlstore.Store, error) {
	return openStore(ctx, config, true)
}

func openStore(ctx context.Context, config *Config, skipMigrations bool) (*sqlstore.Store, error) {
	dialect, err := config.Dialect()
	if err != nil {
		return nil, err
	}

	if dialect == sqlstore.DialectSQLite && config.Database.DSN == "" {
		if err := os.MkdirAll(config.Database.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	repo, err := sqlstore.Open(ctx, sqlstore.Options{
		Dialect:        dialect,
		DSN:            config.GetDatabaseDSN(),
		SkipMigrations: skipMigrations,
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDatabase, "failed to initialize database")
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (*sqlstore.Store, error) {
	repo, err := sqlstore.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
