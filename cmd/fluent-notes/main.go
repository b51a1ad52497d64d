package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluentnotes/fluent-notes/internal/api"
	"github.com/fluentnotes/fluent-notes/internal/config"
	"github.com/fluentnotes/fluent-notes/internal/extraction"
	"github.com/fluentnotes/fluent-notes/internal/pipeline"
	"github.com/fluentnotes/fluent-notes/internal/storage/sqlite"
	"github.com/fluentnotes/fluent-notes/internal/transcription"
	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting fluent-notes",
		logger.String("config", configPath),
		logger.String("db_path", cfg.Storage.DBPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage
	db, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	storage, err := sqlite.NewMeetingStorage(db, log)
	if err != nil {
		return err
	}

	// Capability providers, constructed once and injected by reference
	transcriber := transcription.NewWhisperClient(transcription.Config{
		APIKey:         cfg.OpenAI.APIKey,
		Model:          cfg.Transcription.Model,
		TimeoutSeconds: cfg.Transcription.TimeoutSeconds,
	}, log)

	extractor := extraction.NewOpenAIClient(extraction.Config{
		APIKey:         cfg.OpenAI.APIKey,
		Model:          cfg.Extraction.Model,
		TimeoutSeconds: cfg.Extraction.TimeoutSeconds,
	}, log)

	// Pipeline
	pipelineService := pipeline.NewService(ctx, storage, transcriber, extractor, pipeline.Config{
		Workers:      cfg.Pipeline.Workers,
		QueueSize:    cfg.Pipeline.QueueSize,
		LanguageHint: cfg.Transcription.Language,
	}, log)
	if err := pipelineService.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline: %w", err)
	}

	// HTTP server
	router := api.NewRouter(storage, pipelineService, cfg, log)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down", logger.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	}

	if err := pipelineService.Stop(); err != nil {
		log.Error("Pipeline shutdown error", logger.Error(err))
	}

	return nil
}
