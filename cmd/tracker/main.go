package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JimmyPun610/expense-tracker/internal/backend"
	"github.com/JimmyPun610/expense-tracker/internal/cli"
	"github.com/JimmyPun610/expense-tracker/internal/events"
	"github.com/JimmyPun610/expense-tracker/internal/httpapi"
	"github.com/JimmyPun610/expense-tracker/internal/i18n"
	"github.com/JimmyPun610/expense-tracker/internal/ledger"
	"github.com/JimmyPun610/expense-tracker/internal/ocr"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence backend
	result, err := backend.NewFactory(logger).Create(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		DataFilePath: cfg.DataFilePath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	store := ledger.Open(ctx, result.Persister)

	// Optional change-event stream
	if cfg.AMQPURL != "" {
		publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP publisher, continuing without change events", "error", err)
		} else {
			defer publisher.Close()
			store.Subscribe(publisher.Listener())
			logger.Info("Initialized AMQP publisher",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	// Optional receipt text recognition. Without an API key the client
	// still tries application-default credentials; construction fails in
	// deployments that have neither and the scan endpoint stays disabled.
	var engine ocr.Engine
	if vision, err := ocr.NewVision(ctx, cfg.GoogleVisionAPIKey); err != nil {
		logger.Warn("Text recognition unavailable, scan endpoint disabled", "error", err)
	} else {
		engine = vision
	}

	catalog := i18n.NewCatalog(cfg.I18NBaseURL)

	srv := httpapi.NewServer(":"+cfg.Port, store, engine, catalog, cfg.DefaultLang)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tracker server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
