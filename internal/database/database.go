// Package database persists finished tower runs and per-floor results.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and provides run history operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
}

// Open opens or creates the SQLite run store at the given path.
func Open(path string) (*Database, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the run store described by cfg and runs migrations.
func OpenWithConfig(cfg Config) (*Database, error) {
	dialect := NewDialect(DialectType(cfg.Driver))

	dsn, err := dialect.Connect(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg, err)
	}
	dialect.Tune(db, cfg)

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize %s (%s): %w", cfg, stmt, err)
		}
	}

	d := &Database{db: db, dialect: dialect}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the database schema if it doesn't exist.
func (d *Database) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			player_name TEXT NOT NULL DEFAULT '',
			started_at BIGINT NOT NULL DEFAULT 0,
			ended_at BIGINT NOT NULL DEFAULT 0,
			floor_reached INTEGER NOT NULL DEFAULT 1,
			outcome TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '',
			relics TEXT NOT NULL DEFAULT '',
			cursed_relics TEXT NOT NULL DEFAULT ''
		)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS floor_results (
			id %s,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			floor INTEGER NOT NULL,
			enemy TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL DEFAULT '',
			duration_ms BIGINT NOT NULL DEFAULT 0,
			player_hp INTEGER NOT NULL DEFAULT 0
		)`, d.dialect.AutoIncrementKey()),

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_floor_results_run_floor ON floor_results(run_id, floor)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}
