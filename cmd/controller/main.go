// Package main is the entry point for the gridpay controller.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridpay/internal/config"
	"gridpay/internal/controller"
	"gridpay/internal/controller/handlers"
	"gridpay/internal/logger"
	"gridpay/internal/observability"
	"gridpay/internal/store/postgres"
	"gridpay/internal/tunnel"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New()

	ctx := context.Background()
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer store.Close()

	if *migrateFlag {
		log.Println("Running database migrations...")
		if err := postgres.Migrate(store.DB()); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
	}

	// Tracing (optional)
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "gridpay-controller", cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("Failed to init tracing: %v", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				log.Printf("Failed to shutdown tracer: %v", err)
			}
		}()
	}

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics("gridpay-controller")
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	// Use an Observable Gauge (Async) that queries the DB only when scraped.
	meter := otel.Meter("gridpay-controller")
	_, err = meter.Int64ObservableGauge("gridpay.jobs.queued",
		metric.WithDescription("Current number of jobs waiting to be claimed"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			count, err := store.CountQueuedJobs(ctx)
			if err != nil {
				log.Printf("Failed to count queued jobs: %v", err)
				return nil // Don't crash metrics scrape on DB error
			}
			obs.Observe(count)
			return nil
		}),
	)
	if err != nil {
		log.Printf("Failed to register queued jobs metric: %v", err)
	}

	var tunnelClient handlers.TunnelProvisioner
	if cfg.TunnelProviderURL != "" {
		tunnelClient = tunnel.New(cfg.TunnelProviderURL, cfg.TunnelTimeout)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := controller.New(addr, store, tunnelClient, cfg, slogger, metricsHandler)

	go func() {
		log.Printf("gridpay controller starting on %s", addr)
		if err := srv.Run(ctx); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down controller...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited properly")
}
