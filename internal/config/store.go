package config

import (
	"fmt"
	"strings"
)

// StoreConfig selects and locates the persistence backend. The DB_* fields
// are used to assemble a Postgres URL when URL is empty.
type StoreConfig struct {
	Driver         string
	URL            string
	ConnectTimeout Duration
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
}

func loadStore() StoreConfig {
	return StoreConfig{
		Driver:         strings.ToLower(envOrDefault(envStoreDriver, defaultStoreDriver)),
		URL:            envOrDefault(envDatabaseURL, ""),
		ConnectTimeout: durationEnvOrDefault(envStoreTimeout, defaultStoreTimeout),
		Host:           envOrDefault(envDBHost, defaultDBHost),
		Port:           intEnvOrDefault(envDBPort, defaultDBPort),
		User:           envOrDefault(envDBUser, defaultDBUser),
		Password:       envOrDefault(envDBPassword, ""),
		Name:           envOrDefault(envDBName, defaultDBName),
		SSLMode:        envOrDefault(envDBSSLMode, defaultDBSSLMode),
	}
}

// Validate rejects unknown drivers and a SQLite store without a file.
func (c StoreConfig) Validate() error {
	switch c.Driver {
	case DriverMemory, DriverPostgres:
		return nil
	case DriverSQLite:
		if c.URL == "" {
			return fmt.Errorf("%s requires %s", DriverSQLite, envDatabaseURL)
		}
		return nil
	default:
		return fmt.Errorf("unknown %s %q", envStoreDriver, c.Driver)
	}
}
