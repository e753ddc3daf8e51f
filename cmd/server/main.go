package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Simplici0/bomengine/internal/config"
	"github.com/Simplici0/bomengine/internal/db"
	"github.com/Simplici0/bomengine/internal/logging"
	"github.com/Simplici0/bomengine/internal/metrics"
	"github.com/Simplici0/bomengine/internal/migrations"
	"github.com/Simplici0/bomengine/internal/seed"
	"github.com/Simplici0/bomengine/internal/store"
	"github.com/Simplici0/bomengine/internal/structure"
)

const (
	migrationsDir   = "migrations"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDev(),
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		for _, warning := range cfg.Warnings {
			logger.Warn(warning)
		}
		err = serve(cfg, logger)
	case "token":
		err = printToken(cfg, args, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q, want serve or token", cmd)
	}
	if err != nil {
		logger.Fatal("command failed", zap.String("command", cmd), zap.Error(err))
	}
}

func printToken(cfg config.Config, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: server token <client>")
	}
	token, err := newTokenAuth(cfg.APITokenSecret).issueToken(args[0])
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func serve(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	engine := structure.NewEngine(metrics.Instrument(b.source, m), structure.Options{
		MaxTraversalDepth:  cfg.MaxTraversalDepth,
		MaxStructureLevels: cfg.MaxStructureLevels,
		Concurrency:        cfg.FetchConcurrency,
		MaxCodeLength:      cfg.ItemCodeMaxLength,
	}, logger.Named("structure"))

	srv := &server{
		engine:   engine,
		metrics:  m,
		gatherer: registry,
		auth:     newTokenAuth(cfg.APITokenSecret),
		logger:   logger.Named("http"),
		timeout:  cfg.RequestTimeout,
		ping:     b.ping,
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", httpServer.Addr), zap.String("db_driver", cfg.DBDriver))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

type backend struct {
	source structure.Source
	ping   func(context.Context) error
	close  func()
}

// openBackend connects the configured database. In dev it also applies
// pending migrations, and SEED_DEMO loads the demo structure.
func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	dialect, err := migrations.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == "postgres" {
		pool, err := db.OpenPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
			MaxConns: int32(cfg.FetchConcurrency * 2),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		if cfg.IsDev() {
			sqlDB := db.SQLFromPool(pool)
			err := migrations.Up(sqlDB, migrationsDir, dialect)
			_ = sqlDB.Close()
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to run database migrations: %w", err)
			}
		}
		if cfg.SeedDemo {
			logger.Warn("SEED_DEMO is only supported with the sqlite driver")
		}

		return &backend{source: store.NewPostgres(pool), ping: pool.Ping, close: pool.Close}, nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.IsDev() {
		if err := migrations.Up(database, migrationsDir, dialect); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
	}
	if cfg.SeedDemo {
		stats, err := seed.Run(database)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		logger.Info("demo data seeded", zap.Int("inserts", stats.Inserts), zap.String("root", seed.DemoRootCode))
	}

	return &backend{
		source: store.NewSQLite(database),
		ping:   database.PingContext,
		close:  func() { _ = database.Close() },
	}, nil
}
