package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"textile-qc/inspections/internal/api"
	"textile-qc/inspections/internal/config"
	"textile-qc/inspections/internal/db"
	"textile-qc/inspections/internal/logging"
	"textile-qc/inspections/internal/metrics"
	"textile-qc/inspections/internal/routes"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envFile := flag.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.IsProduction()); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	if err := run(cfg); err != nil {
		logging.Error("Server exited with error", "error", err.Error())
		logging.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Inspections API starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()
	logging.Info("Connected to database", "driver", cfg.DBDriver)

	if err := store.Migrate(); err != nil {
		return err
	}

	metricsReg := metrics.NewMetricsRegistry()
	deps, err := api.InitDependencies(store, metricsReg)
	if err != nil {
		return fmt.Errorf("init dependencies: %w", err)
	}

	router := routes.RegisterRoutes(cfg, deps, store.SQL, time.Now())

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
