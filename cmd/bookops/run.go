package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"bookops/internal/book"
	"bookops/internal/config"
	"bookops/internal/logger"
	"bookops/internal/metrics"
	"bookops/internal/report"
	"bookops/internal/sequence"
)

func runSequence(ctx context.Context, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, stderr)

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("cannot open store", "store", cfg.Store, "error", err.Error())
		return err
	}
	defer closeStore()

	m := metrics.New()
	runner := sequence.NewRunner(repo,
		sequence.WithLogger(log),
		sequence.WithReporter(report.NewWriter(stdout, format)),
		sequence.WithMetrics(m),
	)

	steps := sequence.Default()
	if cfg.Report.TrailingCheck {
		steps = sequence.WithTrailingCheck(steps)
	}

	_, runErr := runner.Run(ctx, steps)
	if cfg.Metrics.File != "" {
		if err := m.WriteTextfile(cfg.Metrics.File); err != nil {
			log.Warn("cannot export metrics", "file", cfg.Metrics.File, "error", err.Error())
		}
	}
	if runErr != nil {
		if sequence.IsStoreFailure(runErr) {
			return fmt.Errorf("store failure, remaining steps skipped: %w", runErr)
		}
		return runErr
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (book.Repository, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Info("using in-memory store")
		return book.NewMemoryRepo(), func() {}, nil
	}

	pool, err := openDB(ctx, cfg.DB.DSN, cfg.QueryTimeout)
	if err != nil {
		return nil, nil, err
	}
	log.Info("database connection OK", "dsn", redactDSN(cfg.DB.DSN))

	if cfg.Migrate.Auto {
		if err := migrateUp(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return book.NewPostgresRepo(pool, cfg.QueryTimeout, book.WithLogger(log)), pool.Close, nil
}
