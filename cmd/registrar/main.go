package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/datamachine-io/structured-analysis/internal/api"
	"github.com/datamachine-io/structured-analysis/internal/config"
	"github.com/datamachine-io/structured-analysis/internal/core/ports"
	"github.com/datamachine-io/structured-analysis/internal/datamachine"
	"github.com/datamachine-io/structured-analysis/internal/registrar"
	"github.com/datamachine-io/structured-analysis/internal/server"
	"github.com/datamachine-io/structured-analysis/internal/storage/memory"
	"github.com/datamachine-io/structured-analysis/internal/storage/sqlite"
	"github.com/datamachine-io/structured-analysis/internal/telemetry"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	shutdown, err := telemetry.InitTracer("structured-analysis", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	settings, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to open settings store: %v", err)
	}
	defer settings.Close()

	var engine ports.PipelineStore
	if cfg.Engine.BaseURL != "" {
		engine = datamachine.NewClient(cfg.Engine.BaseURL, cfg.Engine.APIKey,
			datamachine.WithLogger(logger))
	} else {
		logger.Warn("no engine base url configured, using in-memory store")
		engine = memory.New()
	}

	reg := registrar.New(engine, settings, cfg.Analysis.Model, logger)

	switch command {
	case "setup":
		runSetup(reg, logger)
	case "status":
		runStatus(reg, settings, logger)
	case "serve":
		runServe(cfg, reg, settings, logger)
	default:
		log.Fatalf("Unknown command %q (want setup, status, or serve)", command)
	}
}

// runSetup registers the pipeline once. It follows the exists-before-create
// convention so repeated invocations stay idempotent.
func runSetup(reg *registrar.Registrar, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	exists, err := reg.PipelineExists(ctx)
	if err != nil {
		log.Fatalf("Failed to check pipeline existence: %v", err)
	}
	if exists {
		logger.Info("pipeline already exists, nothing to do",
			slog.String("pipeline", registrar.PipelineName))
		return
	}

	result, err := reg.Setup(ctx)
	if err != nil {
		log.Fatalf("Pipeline setup failed: %v", err)
	}

	printJSON(result)
}

func runStatus(reg *registrar.Registrar, settings ports.SettingsStore, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	exists, err := reg.PipelineExists(ctx)
	if err != nil {
		log.Fatalf("Failed to check pipeline existence: %v", err)
	}

	status := map[string]any{"exists": exists}
	if value, err := settings.Get(ctx, ports.OptionPipelineID); err == nil {
		status["pipeline_id"] = value
	}
	if value, err := settings.Get(ctx, ports.OptionFlowID); err == nil {
		status["flow_id"] = value
	}

	printJSON(status)
}

func runServe(cfg *config.Config, reg *registrar.Registrar, settings ports.SettingsStore, logger *slog.Logger) {
	srv := server.New(cfg.Server.Port, logger, cfg.Server.APIKey)
	api.NewHandler(reg, settings, logger).Routes(srv.Router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-sigChan:
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

func printJSON(v any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(v)
}
