package utils

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"clinicconnect/migrations"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// queryTimeout bounds every statement issued by a request.
const queryTimeout = 10 * time.Second

type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// OpenDB opens a pgx-backed database/sql pool and pings it.
func OpenDB(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// goose keeps its dialect, filesystem and logger in package state.
var gooseMu sync.Mutex

type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(format, v...)
}

func withGoose(dialect string, logger zerolog.Logger, fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: logger.With().Str("component", "migrate").Logger()})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	return fn()
}

// migrationDir maps a goose dialect onto its directory inside migrations.FS.
func migrationDir(dialect string) string {
	if dialect == DialectSQLite {
		return "sqlite"
	}
	return "postgres"
}

// Migrate applies every pending migration for the dialect.
func Migrate(db *sql.DB, dialect string, logger zerolog.Logger) error {
	return withGoose(dialect, logger, func() error {
		if err := goose.Up(db, migrationDir(dialect)); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recently applied migration.
func Rollback(db *sql.DB, dialect string, logger zerolog.Logger) error {
	return withGoose(dialect, logger, func() error {
		if err := goose.Down(db, migrationDir(dialect)); err != nil {
			return fmt.Errorf("roll back migration: %w", err)
		}
		return nil
	})
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(db *sql.DB, dialect string, logger zerolog.Logger) error {
	return withGoose(dialect, logger, func() error {
		return goose.Status(db, migrationDir(dialect))
	})
}

// SchemaVersion returns the newest applied migration version.
func SchemaVersion(db *sql.DB, dialect string, logger zerolog.Logger) (int64, error) {
	var version int64
	err := withGoose(dialect, logger, func() error {
		var err error
		version, err = goose.GetDBVersion(db)
		return err
	})
	return version, err
}
