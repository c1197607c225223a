package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/adpulse/adpulse/internal/config"
	"github.com/adpulse/adpulse/internal/observability"
	"github.com/adpulse/adpulse/internal/seed"
	s3store "github.com/adpulse/adpulse/internal/storage/s3"
)

func main() {
	_ = godotenv.Load()

	rows := flag.Int("rows", 5000, "number of rows to generate")
	randomSeed := flag.Int64("seed", 42, "random seed for deterministic output")
	start := flag.String("start", "", "first date of the window (YYYY-MM-DD, default 90 days ago)")
	days := flag.Int("days", 90, "number of days in the date window")
	dir := flag.String("dir", "", "write customer.parquet into this directory")
	upload := flag.Bool("upload", false, "upload customer.parquet to the configured object store")
	key := flag.String("key", "customer.parquet", "object key used with -upload")
	flag.Parse()

	cfg, err := config.LoadFromEnv("adpulse-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	startDate := time.Now().UTC().AddDate(0, 0, -*days)
	if *start != "" {
		startDate, err = time.Parse("2006-01-02", *start)
		if err != nil {
			logger.Error("invalid -start date", slog.Any("error", err))
			os.Exit(1)
		}
	}

	generator := seed.NewGenerator(*randomSeed, startDate, *days)
	data := generator.Rows(*rows)

	targetDir := *dir
	if targetDir == "" && !*upload {
		targetDir = cfg.Dataset.LocalDir
	}

	if targetDir != "" {
		path, err := seed.WriteLocal(targetDir, data)
		if err != nil {
			logger.Error("failed to write parquet file", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("wrote dataset", slog.String("path", path), slog.Int("rows", len(data)))
	}

	if *upload {
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
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
		if err := seed.Upload(context.Background(), store, *key, data); err != nil {
			logger.Error("failed to upload dataset", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("uploaded dataset",
			slog.String("bucket", cfg.ObjectStore.Bucket),
			slog.String("key", *key),
			slog.Int("rows", len(data)),
		)
	}
}
