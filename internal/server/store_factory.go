package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/golf-league-service/internal/config"
	"github.com/preston-bernstein/golf-league-service/internal/store"
	"github.com/preston-bernstein/golf-league-service/internal/store/sqlstore"
)

// openStore selects the persistence backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var sqlCfg sqlstore.Config
	switch cfg.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverSQLite:
		sqlCfg = sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: cfg.URL}
	case config.DriverPostgres:
		sqlCfg = sqlstore.Config{Driver: sqlstore.DriverPostgres, DSN: postgresDSN(cfg)}
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
	sqlCfg.ConnectTimeout = cfg.ConnectTimeout

	st, err := sqlstore.Open(ctx, sqlCfg, logger)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// postgresDSN prefers DATABASE_URL and falls back to the DB_* settings.
func postgresDSN(cfg config.StoreConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return sqlstore.PostgresConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Name,
		SSLMode:  cfg.SSLMode,
	}.DSN()
}
