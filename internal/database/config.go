package database

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Config selects and configures the run store.
type Config struct {
	Driver     string // "sqlite" (default) or "postgres"
	SQLitePath string
	Postgres   PostgresConfig
}

// PostgresConfig holds PostgreSQL connection and pool settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns a postgres:// URL for lib/pq. The password is escaped.
func (c PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

// String describes the target without credentials, for logs.
func (c Config) String() string {
	if c.Driver == string(DialectPostgres) {
		return fmt.Sprintf("postgres %s:%d/%s", c.Postgres.Host, c.Postgres.Port, c.Postgres.Database)
	}
	return "sqlite " + c.SQLitePath
}

// DefaultConfig returns a Config for a SQLite run store at the given path.
func DefaultConfig(sqlitePath string) Config {
	return Config{Driver: string(DialectSQLite), SQLitePath: sqlitePath}
}

// DefaultPostgresConfig returns a local server with a small pool.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}
