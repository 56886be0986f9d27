package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/feed"
	apphttp "fintrack/internal/http"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("fintrack")
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	store, err := backend.Open(ctx, backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		CSVPath:      cfg.CSVPath,
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to open backend",
			applog.FieldBackend, cfg.DataBackend, applog.FieldError, err.Error())
		os.Exit(1)
	}

	// The change feed is optional: without an AMQP URL mutations are only
	// written to the backing store.
	var feedClient *feed.Client
	if cfg.AMQPURL != "" {
		feedClient, err = feed.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect change feed", applog.FieldError, err.Error())
			os.Exit(1)
		}
		logger.Info("Change feed connected",
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	svc := services.NewLedgerService(store.Records, store.Store, feedClient)
	if store.Cleanup != nil {
		svc.SetCleanup(store.Cleanup)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Cleanup failed", applog.FieldError, err.Error())
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger, apphttp.Options{
		TopCategories:   cfg.TopCategories,
		ReportCacheSize: cfg.ReportCacheSize,
		ReportCacheTTL:  cfg.ReportCacheTTL,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fintrack server",
			"port", cfg.Port, applog.FieldBackend, cfg.DataBackend,
			"rows", len(store.Records))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return srv.ReportCache().Janitor(gctx, time.Minute)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
