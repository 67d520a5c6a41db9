package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/medivoice/medivoice-api/catalog"
	"github.com/medivoice/medivoice-api/completion"
	"github.com/medivoice/medivoice-api/config"
	"github.com/medivoice/medivoice-api/data"
	"github.com/medivoice/medivoice-api/diagnosis"
	"github.com/medivoice/medivoice-api/health"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
	"github.com/medivoice/medivoice-api/scheduler"
	"github.com/medivoice/medivoice-api/server"
	"github.com/medivoice/medivoice-api/vitals"
)

func main() {
	// .env is optional, real deployments set variables directly
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks, logging.ParseLevel(cfg.LogLevel))

	store := data.NewCatalogContainer()
	store.SetServerStartTime(time.Now())

	parser := catalog.NewParser(cfg.CatalogPath)
	sched := scheduler.NewScheduler(store, parser)

	// The initial catalog load is fatal: serving without drugs is useless
	if err := sched.Start(); err != nil {
		logging.Error("Failed to load drug catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	defer sched.Stop()

	var completer interfaces.Completer
	if cfg.ModelGatewayURL != "" {
		completer = completion.NewGatewayClient(cfg.ModelGatewayURL, time.Duration(cfg.ModelTimeoutSec)*time.Second)
	} else {
		logging.Warn("MODEL_GATEWAY_URL not set, model-backed extraction disabled")
	}

	srv := server.NewServer(cfg, server.Deps{
		Store:     store,
		Scheduler: sched,
		Health:    health.NewHealthChecker(store),
		Vitals:    vitals.NewService(completer),
		Diagnosis: diagnosis.NewService(completer),
	})

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
