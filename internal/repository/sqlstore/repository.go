package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"timesheet/internal/errors"
	"timesheet/internal/repository/sqlstore/migrations"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Repository defines the interface for database operations.
// Every lookup below a user is scoped by the user id; a row owned by
// someone else reads as not found.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Categories
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, userID, id int64) (*Category, error)
	GetDefaultCategory(ctx context.Context, userID int64) (*Category, error)
	ListCategories(ctx context.Context, userID int64, includeArchived bool) ([]*Category, error)
	UpdateCategory(ctx context.Context, category *Category) error
	ClearDefaultCategory(ctx context.Context, userID int64) error
	DeleteCategory(ctx context.Context, userID, id int64) error
	MaxCategorySortOrder(ctx context.Context, userID int64) (int, error)
	CountEntriesForCategory(ctx context.Context, categoryID int64) (int, error)
	CountTasksForCategory(ctx context.Context, categoryID int64) (*TaskCounts, error)

	// Tasks
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, userID, id int64) (*Task, error)
	ListTasksByCategory(ctx context.Context, userID, categoryID int64, includeArchived bool) ([]*Task, error)
	ListActiveTasks(ctx context.Context, userID int64) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error
	DeleteTask(ctx context.Context, userID, id int64) error
	MaxTaskSortOrder(ctx context.Context, categoryID int64) (int, error)
	CountEntriesForTask(ctx context.Context, taskID int64) (int, error)
	GetTaskUsage(ctx context.Context, taskID int64) (*TaskUsage, error)

	// Time entries
	CreateTimeEntry(ctx context.Context, entry *TimeEntry) error
	GetTimeEntry(ctx context.Context, userID, id int64) (*TimeEntry, error)
	ListTimeEntriesByDate(ctx context.Context, userID int64, date string) ([]*TimeEntry, error)
	ListTimeEntriesByRange(ctx context.Context, userID int64, startDate, endDate string) ([]*TimeEntry, error)
	FindOverlappingEntries(ctx context.Context, userID int64, date, startTime, endTime string, excludeID int64) ([]*TimeEntry, error)
	SumDurationForDate(ctx context.Context, userID int64, date string, excludeID int64) (int, error)
	UpdateTimeEntry(ctx context.Context, entry *TimeEntry) error
	DeleteTimeEntry(ctx context.Context, userID, id int64) error
	DeleteTimeEntriesByDate(ctx context.Context, userID int64, date string) (int64, error)

	// WithTx runs fn against a store bound to a single transaction.
	// fn must only use the store it is handed.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// Utility
	Dialect() Dialect
	Ping(ctx context.Context) error
	SchemaStatus(ctx context.Context) (*migrations.Status, error)
	Close() error
}

// Store implements Repository on database/sql
type Store struct {
	db      *sql.DB
	q       querier
	dialect Dialect
	inTx    bool
}

// Options controls how a Store is opened
type Options struct {
	Dialect Dialect
	DSN     string
	// SkipMigrations leaves the schema untouched; the migrate command applies it explicitly
	SkipMigrations bool
}

// Open connects to the database and applies pending migrations
func Open(ctx context.Context, opts Options) (*Store, error) {
	dialect := opts.Dialect
	if dialect == "" {
		dialect = DialectSQLite
	}

	db, err := sql.Open(dialect.DriverName(), opts.DSN)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	if dialect == DialectSQLite {
		// one connection: :memory: databases are per connection and sqlite serialises writers anyway
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("enable foreign keys", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("set busy timeout", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("connect", err)
	}

	if !opts.SkipMigrations {
		if err := migrations.Run(ctx, db, string(dialect)); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("run migrations", err)
		}
	}

	return &Store{db: db, q: db, dialect: dialect}, nil
}

// New opens a migrated SQLite database at path; ":memory:" gives a private in-memory store
func New(path string) (*Store, error) {
	return Open(context.Background(), Options{Dialect: DialectSQLite, DSN: path})
}

// DB exposes the underlying pool for the migrate command
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) rebind(query string) string {
	return s.dialect.Rebind(query)
}

// WithTx runs fn inside a transaction, committing on success and rolling back on error
func (s *Store) WithTx(ctx context.Context, fn func(Repository) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseError("begin transaction", err)
	}

	txStore := &Store{db: s.db, q: tx, dialect: s.dialect, inTx: true}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("commit transaction", err)
	}
	return nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewDatabaseError("ping", err)
	}
	return nil
}

// SchemaStatus reports the migration state of the database
func (s *Store) SchemaStatus(ctx context.Context) (*migrations.Status, error) {
	if s.inTx {
		return nil, errors.NewDatabaseError("schema status", fmt.Errorf("not available inside a transaction"))
	}
	mg, err := migrations.New(ctx, s.db, string(s.dialect))
	if err != nil {
		return nil, errors.NewDatabaseError("schema status", err)
	}
	defer mg.Release()

	status, err := mg.Status()
	if err != nil {
		return nil, errors.NewDatabaseError("schema status", err)
	}
	return status, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
