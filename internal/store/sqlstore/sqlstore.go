package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

const defaultConnectTimeout = 30 * time.Second

// Store is a database/sql backed league store for SQLite and PostgreSQL.
type Store struct {
	*repo
	db     *sql.DB
	driver string
}

var _ store.Store = (*Store)(nil)

// Open connects, waits for the database with exponential backoff and applies the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("store driver %s requires a DSN", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// one writer; SQLite serializes anyway and this avoids SQLITE_BUSY inside transactions
		db.SetMaxOpenConns(1)
	}

	if err := waitForDB(ctx, db, cfg.ConnectTimeout, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{
		repo:   &repo{q: db, numbered: cfg.Driver == DriverPostgres},
		db:     db,
		driver: cfg.Driver,
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logging.Info(logger, "store connected", "driver", cfg.Driver)
	return s, nil
}

func waitForDB(ctx context.Context, db *sql.DB, timeout time.Duration, logger *slog.Logger) error {
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = timeout

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return db.PingContext(ctx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		logging.Warn(logger, "database not ready", "attempt", attempt, "retry_in", next.String(), logging.FieldError, err)
	})
}

func (s *Store) migrate(ctx context.Context) error {
	return run(ctx, s.db, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}

// Driver reports which database/sql driver backs the store.
func (s *Store) Driver() string {
	return s.driver
}

// InTx runs fn against a repository bound to one transaction.
func (s *Store) InTx(ctx context.Context, fn func(store.Repository) error) error {
	return run(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&repo{q: tx, numbered: s.numbered})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
