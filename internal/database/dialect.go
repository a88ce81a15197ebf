package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Dialect hides the differences between the SQLite and PostgreSQL run stores.
// Queries are written once with ? placeholders and rebound per dialect.
type Dialect interface {
	// DriverName returns the database/sql driver name.
	DriverName() string

	// Connect prepares the data source for cfg and returns its DSN.
	Connect(cfg Config) (string, error)

	// Tune applies connection pool settings after sql.Open.
	Tune(db *sql.DB, cfg Config)

	// InitStatements run once per connection pool, before migrations.
	InitStatements() []string

	// AutoIncrementKey is the column definition of a generated integer key.
	AutoIncrementKey() string

	// Rebind rewrites ? placeholders into the dialect's own form.
	Rebind(query string) string

	// InsertID runs an already rebound INSERT and returns the generated id column.
	InsertID(q execQuerier, query string, args ...any) (int64, error)

	// IsDuplicateKeyError reports a unique constraint violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Anything but postgres is SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return postgresDialect{}
	}
	return sqliteDialect{}
}

type execQuerier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// sqliteDialect targets modernc.org/sqlite.
type sqliteDialect struct{}

func (sqliteDialect) DriverName() string { return "sqlite" }

func (sqliteDialect) Connect(cfg Config) (string, error) {
	if cfg.SQLitePath == "" {
		return "", fmt.Errorf("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return cfg.SQLitePath, nil
}

// Tune pins SQLite to one connection so WAL mode and PRAGMAs stay bound to it.
func (sqliteDialect) Tune(db *sql.DB, _ Config) {
	db.SetMaxOpenConns(1)
}

func (sqliteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

func (sqliteDialect) AutoIncrementKey() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) InsertID(q execQuerier, query string, args ...any) (int64, error) {
	res, err := q.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (sqliteDialect) IsDuplicateKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// postgresDialect targets github.com/lib/pq.
type postgresDialect struct{}

func (postgresDialect) DriverName() string { return "postgres" }

func (postgresDialect) Connect(cfg Config) (string, error) {
	return cfg.Postgres.DSN(), nil
}

func (postgresDialect) Tune(db *sql.DB, cfg Config) {
	pg := cfg.Postgres
	if pg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pg.MaxOpenConns)
	}
	if pg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pg.MaxIdleConns)
	}
	if pg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pg.ConnMaxLifetime)
	}
}

func (postgresDialect) InitStatements() []string {
	return []string{"SET TIME ZONE 'UTC'"}
}

func (postgresDialect) AutoIncrementKey() string { return "BIGSERIAL PRIMARY KEY" }

// Rebind numbers placeholders: "a = ? AND b = ?" becomes "a = $1 AND b = $2".
func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// InsertID appends RETURNING id, since lib/pq has no LastInsertId.
func (postgresDialect) InsertID(q execQuerier, query string, args ...any) (int64, error) {
	var id int64
	err := q.QueryRow(strings.TrimSpace(query)+" RETURNING id", args...).Scan(&id)
	return id, err
}

// IsDuplicateKeyError matches SQLSTATE 23505 (unique_violation).
func (postgresDialect) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique constraint")
}
