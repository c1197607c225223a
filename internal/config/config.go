package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Profile string

const (
	ProfileDev  Profile = "dev"
	ProfileTest Profile = "test"
	ProfileProd Profile = "prod"
)

type Config struct {
	Profile       Profile
	Service       ServiceConfig
	HTTP          HTTPConfig
	Dataset       DatasetConfig
	ObjectStore   ObjectStoreConfig
	Warehouse     WarehouseConfig
	AI            AIConfig
	Observability ObservabilityConfig
	Auth          AuthConfig
}

type ServiceConfig struct {
	Name string
}

type HTTPConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatasetConfig selects where the customer table is queried from.
// Engine "duckdb" reads parquet snapshot files from LocalDir (optionally
// synced from the object store first); engine "postgres" queries the
// warehouse table directly.
type DatasetConfig struct {
	Engine        string
	LocalDir      string
	SyncFromStore bool
	RowLimit      int
}

type ObjectStoreConfig struct {
	Endpoint         string
	Region           string
	Bucket           string
	AccessKeyID      string
	SecretAccessKey  string
	UseSSL           bool
	Prefix           string
	AutoCreateBucket bool
}

type WarehouseConfig struct {
	DSN string
}

type AIConfig struct {
	BaseURL      string
	APIKey       string
	SQLModel     string
	InsightModel string
	Temperature  float64
	Timeout      time.Duration
}

type ObservabilityConfig struct {
	LogLevel slog.Level
	LogJSON  bool
}

type AuthConfig struct {
	Required   bool
	StaticKeys string
}

const (
	EngineDuckDB   = "duckdb"
	EnginePostgres = "postgres"
)

func LoadFromEnv(serviceName string) (Config, error) {
	return Load(serviceName, os.LookupEnv)
}

func Load(serviceName string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	profile := ProfileDev
	if raw, ok := lookup("ADPULSE_PROFILE"); ok {
		profile = Profile(strings.ToLower(strings.TrimSpace(raw)))
	}
	if !isValidProfile(profile) {
		return Config{}, fmt.Errorf("invalid ADPULSE_PROFILE: %q", profile)
	}

	cfg := defaultsForProfile(profile)
	if serviceName != "" {
		cfg.Service.Name = serviceName
	}

	b := binder{lookup: lookup}
	b.str("ADPULSE_SERVICE_NAME", &cfg.Service.Name)
	b.str("ADPULSE_HTTP_ADDR", &cfg.HTTP.Address)
	b.duration("ADPULSE_HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	b.duration("ADPULSE_HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	b.duration("ADPULSE_HTTP_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout)
	b.str("ADPULSE_DATASET_ENGINE", &cfg.Dataset.Engine)
	b.str("ADPULSE_DATASET_LOCAL_DIR", &cfg.Dataset.LocalDir)
	b.boolean("ADPULSE_DATASET_SYNC_FROM_STORE", &cfg.Dataset.SyncFromStore)
	b.integer("ADPULSE_DATASET_ROW_LIMIT", &cfg.Dataset.RowLimit)
	b.str("ADPULSE_OBJECTSTORE_ENDPOINT", &cfg.ObjectStore.Endpoint)
	b.str("ADPULSE_OBJECTSTORE_REGION", &cfg.ObjectStore.Region)
	b.str("ADPULSE_OBJECTSTORE_BUCKET", &cfg.ObjectStore.Bucket)
	b.str("ADPULSE_OBJECTSTORE_ACCESS_KEY", &cfg.ObjectStore.AccessKeyID)
	b.str("ADPULSE_OBJECTSTORE_SECRET_KEY", &cfg.ObjectStore.SecretAccessKey)
	b.boolean("ADPULSE_OBJECTSTORE_USE_SSL", &cfg.ObjectStore.UseSSL)
	b.str("ADPULSE_OBJECTSTORE_PREFIX", &cfg.ObjectStore.Prefix)
	b.boolean("ADPULSE_OBJECTSTORE_AUTO_CREATE_BUCKET", &cfg.ObjectStore.AutoCreateBucket)
	b.str("ADPULSE_WAREHOUSE_DSN", &cfg.Warehouse.DSN)
	b.str("ADPULSE_AI_BASE_URL", &cfg.AI.BaseURL)
	b.str("ADPULSE_AI_API_KEY", &cfg.AI.APIKey)
	b.str("ADPULSE_AI_SQL_MODEL", &cfg.AI.SQLModel)
	b.str("ADPULSE_AI_INSIGHT_MODEL", &cfg.AI.InsightModel)
	b.float("ADPULSE_AI_TEMPERATURE", &cfg.AI.Temperature)
	b.duration("ADPULSE_AI_TIMEOUT", &cfg.AI.Timeout)
	b.boolean("ADPULSE_LOG_JSON", &cfg.Observability.LogJSON)
	b.logLevel("ADPULSE_LOG_LEVEL", &cfg.Observability.LogLevel)
	b.boolean("ADPULSE_AUTH_REQUIRED", &cfg.Auth.Required)
	b.str("ADPULSE_AUTH_STATIC_KEYS", &cfg.Auth.StaticKeys)
	if b.err != nil {
		return Config{}, b.err
	}

	if cfg.Service.Name == "" {
		return Config{}, fmt.Errorf("service name is required")
	}
	if cfg.HTTP.Address == "" {
		return Config{}, fmt.Errorf("http address is required")
	}
	switch cfg.Dataset.Engine {
	case EngineDuckDB, EnginePostgres:
	default:
		return Config{}, fmt.Errorf("invalid ADPULSE_DATASET_ENGINE: %q", cfg.Dataset.Engine)
	}
	if cfg.Dataset.Engine == EnginePostgres && cfg.Warehouse.DSN == "" {
		return Config{}, fmt.Errorf("warehouse dsn is required for the postgres engine")
	}
	return cfg, nil
}

func defaultsForProfile(profile Profile) Config {
	cfg := Config{
		Profile: profile,
		Service: ServiceConfig{Name: "adpulse-api"},
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Dataset: DatasetConfig{
			Engine:        EngineDuckDB,
			LocalDir:      "data",
			SyncFromStore: false,
			RowLimit:      500,
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:         "localhost:9000",
			Region:           "us-east-1",
			Bucket:           "adpulse",
			AccessKeyID:      "minio",
			SecretAccessKey:  "miniostorage",
			UseSSL:           false,
			Prefix:           "datasets/customer",
			AutoCreateBucket: true,
		},
		Warehouse: WarehouseConfig{
			DSN: "",
		},
		AI: AIConfig{
			BaseURL:      "https://api.openai.com",
			SQLModel:     "gpt-5",
			InsightModel: "gpt-5",
			Temperature:  0.1,
			Timeout:      30 * time.Second,
		},
		Observability: ObservabilityConfig{
			LogLevel: slog.LevelDebug,
			LogJSON:  true,
		},
		Auth: AuthConfig{
			Required:   false,
			StaticKeys: "",
		},
	}

	switch profile {
	case ProfileTest:
		cfg.HTTP.Address = ":18080"
		cfg.Observability.LogLevel = slog.LevelWarn
		cfg.Auth.Required = false
	case ProfileProd:
		cfg.Observability.LogLevel = slog.LevelInfo
		cfg.Auth.Required = true
		cfg.ObjectStore.UseSSL = true
		cfg.ObjectStore.AutoCreateBucket = false
	}

	return cfg
}

func isValidProfile(profile Profile) bool {
	switch profile {
	case ProfileDev, ProfileTest, ProfileProd:
		return true
	default:
		return false
	}
}

// binder applies env overrides onto defaults. The first parse failure
// sticks; later bindings become no-ops so Load reports one error.
type binder struct {
	lookup LookupFunc
	err    error
}

func (b *binder) raw(key string) (string, bool) {
	if b.err != nil {
		return "", false
	}
	value, ok := b.lookup(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (b *binder) str(key string, dst *string) {
	if raw, ok := b.raw(key); ok {
		*dst = raw
	}
}

func (b *binder) duration(key string, dst *time.Duration) {
	raw, ok := b.raw(key)
	if !ok {
		return
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		b.err = fmt.Errorf("invalid %s: %w", key, err)
		return
	}
	*dst = value
}

func (b *binder) boolean(key string, dst *bool) {
	raw, ok := b.raw(key)
	if !ok {
		return
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		b.err = fmt.Errorf("invalid %s: %w", key, err)
		return
	}
	*dst = value
}

func (b *binder) integer(key string, dst *int) {
	raw, ok := b.raw(key)
	if !ok {
		return
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		b.err = fmt.Errorf("invalid %s: %w", key, err)
		return
	}
	*dst = value
}

func (b *binder) float(key string, dst *float64) {
	raw, ok := b.raw(key)
	if !ok {
		return
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		b.err = fmt.Errorf("invalid %s: %w", key, err)
		return
	}
	*dst = value
}

func (b *binder) logLevel(key string, dst *slog.Level) {
	raw, ok := b.raw(key)
	if !ok {
		return
	}
	switch strings.ToLower(raw) {
	case "debug":
		*dst = slog.LevelDebug
	case "info":
		*dst = slog.LevelInfo
	case "warn", "warning":
		*dst = slog.LevelWarn
	case "error":
		*dst = slog.LevelError
	default:
		b.err = fmt.Errorf("invalid %s: %q", key, raw)
	}
}
