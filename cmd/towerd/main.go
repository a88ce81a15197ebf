// towerd serves Relic Tower runs over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/relictower/data"
	"github.com/lawnchairsociety/relictower/internal/config"
	"github.com/lawnchairsociety/relictower/internal/database"
	"github.com/lawnchairsociety/relictower/internal/game"
	"github.com/lawnchairsociety/relictower/internal/help"
	"github.com/lawnchairsociety/relictower/internal/logger"
	"github.com/lawnchairsociety/relictower/internal/server"
)

func main() {
	wsPort := flag.Int("wsport", 4443, "WebSocket server port")
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	dataDir := flag.String("data-dir", "", "Directory with skills/items/enemies YAML files (default: built-in catalog)")
	skillsFile := flag.String("skills", "skills.yaml", "Skills catalog file name inside the data directory")
	itemsFile := flag.String("items", "items.yaml", "Items catalog file name inside the data directory")
	enemiesFile := flag.String("enemies", "enemies.yaml", "Enemy roster file name inside the data directory")
	dbFile := flag.String("db", "", "Path to the run history SQLite file (overrides the config)")
	noHistory := flag.Bool("no-history", false, "Do not record finished runs")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("Starting Relic Tower server")

	serverCfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
	}
	if *dbFile != "" {
		serverCfg.Database.Driver = "sqlite"
		serverCfg.Database.SQLitePath = *dbFile
	}
	if *noHistory {
		serverCfg.Database.Driver = ""
	}

	var catalogFS fs.FS = data.FS
	if *dataDir != "" {
		catalogFS = os.DirFS(*dataDir)
	}
	catalog, err := game.LoadCatalog(catalogFS, game.CatalogFiles{
		Skills:  *skillsFile,
		Items:   *itemsFile,
		Enemies: *enemiesFile,
	})
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	logger.Info("Catalog loaded",
		"skills", catalog.Skills.Count(),
		"items", catalog.Items.Count(),
		"enemies", catalog.Roster.Len())

	if err := help.Initialize(data.FS, "help.yaml"); err != nil {
		logger.Warning("Help topics unavailable", "error", err)
	}

	srv := server.NewServer(serverCfg, catalog)

	if serverCfg.Database.Enabled() {
		db, err := database.OpenWithConfig(serverCfg.Database.StoreConfig())
		if err != nil {
			log.Fatalf("Failed to open run history database: %v", err)
		}
		defer db.Close()
		srv.SetDatabase(db)
		logger.Info("Run history enabled", "driver", serverCfg.Database.Driver)
	} else {
		logger.Info("Run history disabled")
	}

	if len(serverCfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(serverCfg.WebSocket.AllowedOrigins) == 1 && serverCfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", serverCfg.WebSocket.AllowedOrigins)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	addr := fmt.Sprintf(":%d", *wsPort)
	g.Go(func() error {
		return srv.Start(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server")
		srv.Shutdown()
		return nil
	})

	logger.Info("Relic Tower running", "websocket_port", *wsPort, "frame_rate", serverCfg.WebSocket.FrameRate)
	logger.Info("Press Ctrl+C to shutdown")

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
