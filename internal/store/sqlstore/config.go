package sqlstore

import (
	"fmt"
	"time"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Config holds connection settings for the SQL store.
type Config struct {
	Driver         string
	DSN            string
	ConnectTimeout time.Duration
}

// PostgresConfig assembles a PostgreSQL URL from discrete settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the Postgres connection URL.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}
