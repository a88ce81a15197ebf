// migrate-to-postgres copies the run history from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/relictower.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user relictower \
//	    -pg-password relictower \
//	    -pg-database relictower
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/lawnchairsociety/relictower/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/relictower.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "relictower", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "relictower", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "relictower", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Run History Migration")
	log.Println("==========================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	// Opening runs the schema migrations, so the target is ready afterwards
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	res, err := copyRuns(src, dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed after %d runs: %v", res.Runs, err)
	}

	log.Println("==========================================")
	log.Printf("Migration complete! Runs: %d, floor results: %d, already present: %d",
		res.Runs, res.Floors, res.Skipped)
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}

// copyResult counts what copyRuns moved.
type copyResult struct {
	Runs    int
	Floors  int
	Skipped int
}

// copyRuns copies every run in src that dst does not have yet.
func copyRuns(src, dst *database.Database, dryRun bool) (copyResult, error) {
	var res copyResult

	total, err := src.CountRuns()
	if err != nil {
		return res, err
	}
	if total == 0 {
		return res, nil
	}

	runs, err := src.ListRecentRuns(total)
	if err != nil {
		return res, err
	}

	for _, summary := range runs {
		if _, err := dst.GetRun(summary.ID); err == nil {
			res.Skipped++
			continue
		} else if !errors.Is(err, database.ErrRunNotFound) {
			return res, fmt.Errorf("check run %s: %w", summary.ID, err)
		}

		run, err := src.GetRun(summary.ID)
		if err != nil {
			return res, fmt.Errorf("read run %s: %w", summary.ID, err)
		}

		if !dryRun {
			// Floor ids are assigned by the target
			for i := range run.Floors {
				run.Floors[i].ID = 0
			}
			if err := dst.RecordRun(run); err != nil {
				return res, fmt.Errorf("write run %s: %w", run.ID, err)
			}
		}
		res.Runs++
		res.Floors += len(run.Floors)
	}
	return res, nil
}
