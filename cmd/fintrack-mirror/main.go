package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/backend"
	"fintrack/internal/cli"
	"fintrack/internal/feed"
	applog "fintrack/internal/log"
	"fintrack/internal/mirror/google"
)

// fintrack-mirror consumes ledger change events and mirrors the full
// backing table to a Google Sheets spreadsheet. It reads from the same
// store the server writes to, so every event triggers a fresh snapshot
// rather than trusting the event payload.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("fintrack-mirror")
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the mirror worker")
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" {
		logger.Error("The mirror worker needs a persistent backend (csv or sqlite)")
		os.Exit(1)
	}

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
	loader, ok := store.Store.(backend.Loader)
	if !ok {
		logger.Error("Backend does not support reloads", applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	if store.Cleanup != nil {
		defer func() {
			if err := store.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
			}
		}()
	}

	sheet, err := google.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err.Error())
		os.Exit(1)
	}

	feedClient, err := feed.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect change feed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer feedClient.Close()

	mirrorOnce := func(ctx context.Context) error {
		records, err := loader.LoadAll(ctx)
		if err != nil {
			return err
		}
		if err := sheet.ReplaceAll(ctx, records); err != nil {
			return err
		}
		logger.Info("Mirrored ledger to spreadsheet", applog.FieldRows, len(records))
		return nil
	}

	// Catch up on anything missed while the worker was down.
	if err := mirrorOnce(ctx); err != nil {
		logger.Error("Startup mirror failed", applog.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return feedClient.Consume(gctx, func(ctx context.Context, ev *feed.LedgerEvent) error {
			logger.Info("Ledger change received",
				applog.FieldOperation, ev.Op, applog.FieldIndex, ev.Index,
				"ledger_size", ev.LedgerSize)
			return mirrorOnce(ctx)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Mirror worker error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Mirror worker stopped")
}
