// Command trajectory-server serves recorded trajectory runs: a JSON API,
// interactive chart pages, and debug routes over the run database.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/raghavs6/ego-trajectory-challenge/internal/api"
	"github.com/raghavs6/ego-trajectory-challenge/internal/config"
	"github.com/raghavs6/ego-trajectory-challenge/internal/db"
	"github.com/raghavs6/ego-trajectory-challenge/internal/units"
	"github.com/raghavs6/ego-trajectory-challenge/internal/version"
)

var (
	listen        = flag.String("listen", "", "Listen address (overrides config)")
	dbFile        = flag.String("db", "trajectory.db", "SQLite database path")
	configPath    = flag.String("config", "", "Optional pipeline config JSON")
	displayUnits  = flag.String("units", "m", "Distance units for API responses: m or ft")
	migrationsDir = flag.String("migrations-dir", "migrations", "Directory holding schema migrations")
)

func main() {
	flag.Parse()

	// Maintenance mode: trajectory-server migrate <action>
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], *dbFile, *migrationsDir)
		return
	}

	if !units.IsValid(*displayUnits) {
		log.Fatalf("invalid units %q, must be one of %s", *displayUnits, units.GetValidUnitsString())
	}

	cfg := config.EmptyPipelineConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadPipelineConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	addr := cfg.GetListenAddr()
	if *listen != "" {
		addr = *listen
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()

	// mount the admin debugging routes
	database.AttachAdminRoutes(mux)

	// mount the API and chart handlers
	mux.Handle("/", api.NewServer(database, *displayUnits).ServeMux())

	server := &http.Server{
		Addr:    addr,
		Handler: api.LoggingMiddleware(mux),
	}

	// Start server in a goroutine so it doesn't block
	go func() {
		log.Printf("trajectory-server %s serving on %s", version.String(), addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Printf("Graceful shutdown complete")
}
