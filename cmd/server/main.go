/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the year planner server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load YAML config, apply env overrides
  2. Open the local SQLite store (signed-out repository)
  3. Open the document database if a DSN is configured (signed-in users)
  4. Build the bank-holiday calendar (seed + optional .ics file)
  5. Create the Day Store and load it
  6. Configure HTTP router and start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: ./data/planner.yaml, created if missing)
  -port    HTTP server port, overrides config listen address
  -db      Local SQLite path, overrides config local_db
           Use ":memory:" for an in-memory database

ENVIRONMENT:
  PLANNER_LISTEN, PLANNER_LOCAL_DB, PLANNER_DOCUMENT_DSN,
  PLANNER_LOG_LEVEL, PLANNER_UPCOMING_DAYS

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connections
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - internal/config: Configuration model
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/warp/year-planner/api"
	"github.com/warp/year-planner/calendar"
	"github.com/warp/year-planner/factory"
	"github.com/warp/year-planner/internal/config"
	"github.com/warp/year-planner/internal/log"
	"github.com/warp/year-planner/planner"
	"github.com/warp/year-planner/store/document"
	"github.com/warp/year-planner/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "./data/planner.yaml", "YAML config path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "Local SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}
	cfg.ApplyEnv()
	if *port != 0 {
		cfg.Listen = fmt.Sprintf(":%d", *port)
	}
	if *dbPath != "" {
		cfg.LocalDB = *dbPath
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	// Local store
	if cfg.LocalDB != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.LocalDB), 0o755); err != nil {
			stdlog.Fatalf("Failed to create data directory: %v", err)
		}
	}
	local, err := sqlite.New(cfg.LocalDB)
	if err != nil {
		stdlog.Fatalf("Failed to initialize database: %v", err)
	}
	defer local.Close()

	// Document store (optional)
	var docs *gorm.DB
	if cfg.Document.DSN != "" {
		docs, err = document.Open(cfg.Document.Driver, cfg.Document.DSN)
		if err != nil {
			stdlog.Fatalf("Failed to open document database: %v", err)
		}
		defer document.Close(docs)
		log.Info("document store enabled", "driver", cfg.Document.Driver)
	}

	holidays, err := loadHolidays(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to load holidays: %v", err)
	}

	defaults, err := cfg.Settings(time.Now().Year())
	if err != nil {
		stdlog.Fatalf("Invalid default settings: %v", err)
	}

	days := planner.NewDayStore(local,
		planner.WithHolidays(holidays),
		planner.WithDefaultSettings(defaults),
	)
	if err := days.LoadAll(context.Background()); err != nil {
		log.Error("initial load failed, starting empty", err)
	}

	repos := factory.NewRepositoryFactory(local, docs)
	handler := api.NewHandler(days, api.NewSession(days, repos))
	handler.UpcomingDays = cfg.UpcomingDays

	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.CORSOrigins})

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", cfg.Listen, "local_db", cfg.LocalDB)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", err)
	}

	log.Info("server stopped")
}

// loadHolidays filters the seed calendar by region and merges the optional
// ICS file on top.
func loadHolidays(cfg *config.Config) ([]planner.Holiday, error) {
	holidays := planner.HolidaysForRegion(planner.SpanishHolidays, cfg.Region)
	if cfg.HolidaysICS == "" {
		return holidays, nil
	}

	f, err := os.Open(cfg.HolidaysICS)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	extra, err := calendar.ImportHolidays(f, cfg.Region)
	if err != nil {
		return nil, err
	}
	return planner.MergeHolidays(holidays, extra), nil
}
