package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestLoadDefaultsForDevProfile(t *testing.T) {
	cfg, err := Load("adpulse-api", mapLookup(map[string]string{}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false in dev")
	}
	if cfg.Dataset.Engine != EngineDuckDB {
		t.Fatalf("Dataset.Engine = %q", cfg.Dataset.Engine)
	}
	if cfg.Dataset.RowLimit != 500 {
		t.Fatalf("Dataset.RowLimit = %d", cfg.Dataset.RowLimit)
	}
	if cfg.ObjectStore.Endpoint != "localhost:9000" {
		t.Fatalf("ObjectStore.Endpoint = %q", cfg.ObjectStore.Endpoint)
	}
	if cfg.AI.SQLModel != "gpt-5" {
		t.Fatalf("AI.SQLModel = %q", cfg.AI.SQLModel)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Fatalf("AI.Timeout = %v", cfg.AI.Timeout)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	cfg, err := Load("adpulse-api", mapLookup(map[string]string{"ADPULSE_PROFILE": "prod"}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required should default to true in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.ObjectStore.UseSSL {
		t.Fatal("ObjectStore.UseSSL should default to true in prod")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load("adpulse-api", mapLookup(map[string]string{
		"ADPULSE_HTTP_ADDR":         ":9999",
		"ADPULSE_DATASET_ENGINE":    "postgres",
		"ADPULSE_WAREHOUSE_DSN":     "postgres://localhost:5432/ads",
		"ADPULSE_DATASET_ROW_LIMIT": "25",
		"ADPULSE_AI_SQL_MODEL":      "gemma-3-27b-it",
		"ADPULSE_AI_TEMPERATURE":    "0.4",
		"ADPULSE_AI_TIMEOUT":        "5s",
		"ADPULSE_LOG_LEVEL":         "error",
	}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Dataset.Engine != EnginePostgres {
		t.Fatalf("Dataset.Engine = %q", cfg.Dataset.Engine)
	}
	if cfg.Dataset.RowLimit != 25 {
		t.Fatalf("Dataset.RowLimit = %d", cfg.Dataset.RowLimit)
	}
	if cfg.AI.SQLModel != "gemma-3-27b-it" {
		t.Fatalf("AI.SQLModel = %q", cfg.AI.SQLModel)
	}
	if cfg.AI.Temperature != 0.4 {
		t.Fatalf("AI.Temperature = %v", cfg.AI.Temperature)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	_, err := Load("adpulse-api", mapLookup(map[string]string{"ADPULSE_PROFILE": "staging"}))
	if err == nil {
		t.Fatal("Load() expected error for invalid profile")
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	_, err := Load("adpulse-api", mapLookup(map[string]string{"ADPULSE_DATASET_ENGINE": "sqlite"}))
	if err == nil || !strings.Contains(err.Error(), "ADPULSE_DATASET_ENGINE") {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoadRequiresWarehouseDSNForPostgres(t *testing.T) {
	_, err := Load("adpulse-api", mapLookup(map[string]string{"ADPULSE_DATASET_ENGINE": "postgres"}))
	if err == nil || !strings.Contains(err.Error(), "warehouse dsn") {
		t.Fatalf("Load() error = %v", err)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	_, err := Load("adpulse-api", mapLookup(map[string]string{"ADPULSE_AI_TIMEOUT": "never"}))
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
}
