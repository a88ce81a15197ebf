// towersim plays many automated Relic Tower runs and prints balance statistics.
//
// Usage:
//
//	towersim -runs 1000 -workers 8 -policy greedy -max-floors 30
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/lawnchairsociety/relictower/data"
	"github.com/lawnchairsociety/relictower/internal/balance"
	"github.com/lawnchairsociety/relictower/internal/config"
	"github.com/lawnchairsociety/relictower/internal/database"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/logger"
)

func main() {
	runs := flag.Int("runs", 1000, "Number of runs to simulate")
	workers := flag.Int("workers", runtime.NumCPU(), "Runs simulated concurrently")
	seed := flag.Int64("seed", 0, "Base seed; run i uses seed+i (default: random based on current time)")
	maxFloors := flag.Int("max-floors", 50, "Abandon a run after clearing this many floors (0: no cap)")
	policy := flag.String("policy", balance.PolicyGreedy, "Reward policy: greedy or random")
	frameMs := flag.Float64("frame-ms", 16, "Simulated milliseconds per frame")
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to server config YAML file (simulation and database settings)")
	loggingConfig := flag.String("logging", "", "Path to logging config YAML file (default: warnings only)")
	dataDir := flag.String("data-dir", "", "Directory with skills/items/enemies YAML files (default: built-in catalog)")
	record := flag.Bool("record", false, "Record every simulated run in the run history database")
	flag.Parse()

	logConfig := logger.DefaultConfig()
	logConfig.Level = "WARNING"
	if *loggingConfig != "" {
		logConfig, _ = logger.LoadConfig(*loggingConfig)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	serverCfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
	}

	var catalogFS fs.FS = data.FS
	if *dataDir != "" {
		catalogFS = os.DirFS(*dataDir)
	}
	catalog, err := game.LoadCatalog(catalogFS, game.DefaultCatalogFiles())
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	cfg := balance.Config{
		Runs:      *runs,
		Workers:   *workers,
		Seed:      *seed,
		MaxFloors: *maxFloors,
		FrameMs:   *frameMs,
		Policy:    *policy,
		Options:   serverCfg.Simulation.SessionOptions(),
	}

	if *record {
		if !serverCfg.Database.Enabled() {
			log.Fatalf("-record needs a database driver in %s", *serverConfigFile)
		}
		db, err := database.OpenWithConfig(serverCfg.Database.StoreConfig())
		if err != nil {
			log.Fatalf("Failed to open run history database: %v", err)
		}
		defer db.Close()
		cfg.OnRun = func(sum game.RunSummary) error {
			return db.RecordRun(sum.Record())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("=== Relic Tower Balance Simulation ===")
	fmt.Println()
	fmt.Printf("Runs: %d, workers: %d, policy: %s, max floors: %d\n", *runs, *workers, *policy, *maxFloors)
	fmt.Printf("Player: %d HP, ATK %d, DEF %d, SUP %d\n",
		cfg.Options.Player.MaxHp, cfg.Options.Player.Atk, cfg.Options.Player.Def, cfg.Options.Player.Sup)
	fmt.Println()

	start := time.Now()
	report, err := balance.RunBatch(ctx, catalog, cfg)
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	report.Print(os.Stdout)
	fmt.Printf("\nSimulated %d runs in %s\n", report.Runs, time.Since(start).Round(time.Millisecond))
}
