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

	"github.com/joho/godotenv"

	"github.com/adpulse/adpulse/internal/api"
	"github.com/adpulse/adpulse/internal/auth"
	"github.com/adpulse/adpulse/internal/config"
	"github.com/adpulse/adpulse/internal/dataset"
	"github.com/adpulse/adpulse/internal/insight"
	"github.com/adpulse/adpulse/internal/llm"
	"github.com/adpulse/adpulse/internal/nl2sql"
	"github.com/adpulse/adpulse/internal/observability"
	"github.com/adpulse/adpulse/internal/query"
	duckdbengine "github.com/adpulse/adpulse/internal/query/duckdb"
	postgresengine "github.com/adpulse/adpulse/internal/query/postgres"
	"github.com/adpulse/adpulse/internal/schema"
	"github.com/adpulse/adpulse/internal/session"
	s3store "github.com/adpulse/adpulse/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("adpulse-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	tables := schema.Marketing()

	engine, err := buildEngine(cfg, tables)
	if err != nil {
		logger.Error("failed to initialize query engine", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize ai client", slog.Any("error", err))
		os.Exit(1)
	}
	translator, err := nl2sql.NewGenerator(client, cfg.AI.SQLModel, tables)
	if err != nil {
		logger.Error("failed to initialize sql generator", slog.Any("error", err))
		os.Exit(1)
	}
	insights, err := insight.NewPromptGenerator(client, cfg.AI.InsightModel)
	if err != nil {
		logger.Error("failed to initialize insight generator", slog.Any("error", err))
		os.Exit(1)
	}

	controller := session.NewController(session.Dependencies{
		Translator: translator,
		Engine:     engine,
		Insights:   insights,
		Logger:     logger,
		Table:      tables.Table,
		RowLimit:   cfg.Dataset.RowLimit,
	})

	deps := api.Dependencies{
		Logger:       logger,
		Conversation: controller,
		Schema:       tables,
		Readiness: api.CombineReadinessChecks(
			api.CheckDatasetConfig(cfg),
			api.CheckAIConfig(cfg),
		),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("engine", cfg.Dataset.Engine),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func buildEngine(cfg config.Config, tables schema.Descriptor) (query.Engine, error) {
	switch cfg.Dataset.Engine {
	case config.EnginePostgres:
		return postgresengine.NewEngine(cfg.Warehouse.DSN)
	default:
		var snapshots duckdbengine.SnapshotSource
		if cfg.Dataset.SyncFromStore {
			store, err := s3store.New(context.Background(), s3store.Config{
				Endpoint:         cfg.ObjectStore.Endpoint,
				Region:           cfg.ObjectStore.Region,
				Bucket:           cfg.ObjectStore.Bucket,
				AccessKeyID:      cfg.ObjectStore.AccessKeyID,
				SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
				UseSSL:           cfg.ObjectStore.UseSSL,
				Prefix:           cfg.ObjectStore.Prefix,
				AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
			})
			if err != nil {
				return nil, err
			}
			snapshots = &dataset.SyncedSource{Store: store, CacheDir: cfg.Dataset.LocalDir}
		} else {
			snapshots = &dataset.LocalSource{Dir: cfg.Dataset.LocalDir}
		}
		return duckdbengine.NewEngine(tables.Table, snapshots), nil
	}
}
