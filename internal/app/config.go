package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/starcatalog-backend/internal/data/db"
	"github.com/yungbote/starcatalog-backend/internal/http/middleware"
	"github.com/yungbote/starcatalog-backend/internal/modules/auth"
	"github.com/yungbote/starcatalog-backend/internal/modules/catalog"
	"github.com/yungbote/starcatalog-backend/internal/observability"
	"github.com/yungbote/starcatalog-backend/internal/platform/envutil"
	"github.com/yungbote/starcatalog-backend/internal/platform/redisbus"
)

const (
	serviceName = "starcatalog-backend"
	devSecret   = "starcatalog-dev-secret"
)

type Config struct {
	Env     string
	Port    string
	LogMode string

	DB          db.Config
	AutoMigrate bool

	JWTSecret string
	TokenTTL  time.Duration
	// JWTSecretDefaulted is set when a non-production run fell back to the
	// built-in development secret.
	JWTSecretDefaulted bool

	Redis       redisbus.Config
	CORSOrigins []string
	Retry       catalog.RetryConfig
	Otel        observability.OtelConfig
}

func (c Config) Production() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// fileConfig is the optional CONFIG_FILE layout. Every value is a default
// that the matching environment variable overrides.
type fileConfig struct {
	Env     string `yaml:"app_env"`
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	DB struct {
		Driver          string        `yaml:"driver"`
		URL             string        `yaml:"url"`
		Host            string        `yaml:"host"`
		Port            string        `yaml:"port"`
		User            string        `yaml:"user"`
		Password        string        `yaml:"password"`
		Name            string        `yaml:"name"`
		SSLMode         string        `yaml:"sslmode"`
		SQLitePath      string        `yaml:"sqlite_path"`
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		AutoMigrate     *bool         `yaml:"auto_migrate"`
	} `yaml:"db"`

	Auth struct {
		TokenTTL time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Redis struct {
		Addr    string `yaml:"addr"`
		Channel string `yaml:"channel"`
	} `yaml:"redis"`

	CORSOrigins []string `yaml:"cors_origins"`

	Retry struct {
		MaxTries        uint          `yaml:"max_tries"`
		InitialInterval time.Duration `yaml:"initial_interval"`
	} `yaml:"eval_retry"`

	Otel struct {
		Enabled     bool    `yaml:"enabled"`
		Endpoint    string  `yaml:"endpoint"`
		Insecure    bool    `yaml:"insecure"`
		SampleRatio float64 `yaml:"sample_ratio"`
	} `yaml:"otel"`
}

func defaultFileConfig() fileConfig {
	var fc fileConfig
	fc.Env = "development"
	fc.Port = "8080"
	fc.LogMode = "development"
	fc.DB.Driver = db.DriverPostgres
	fc.DB.Host = "localhost"
	fc.DB.Port = "5432"
	fc.DB.User = "postgres"
	fc.DB.Name = "starcatalog"
	fc.DB.SSLMode = "disable"
	fc.DB.SQLitePath = "starcatalog.db"
	fc.DB.MaxOpenConns = 20
	fc.DB.MaxIdleConns = 5
	fc.DB.ConnMaxLifetime = 30 * time.Minute
	fc.Auth.TokenTTL = auth.DefaultTokenTTL
	fc.Redis.Channel = redisbus.DefaultChannel
	fc.CORSOrigins = middleware.DefaultCORSOrigins
	fc.Retry.MaxTries = 3
	fc.Retry.InitialInterval = 100 * time.Millisecond
	fc.Otel.SampleRatio = 1
	return fc
}

// loadEnvFiles loads .env then .env.local; neither has to exist and neither
// overrides variables already set in the process environment.
func loadEnvFiles() {
	for _, f := range []string{".env", ".env.local"} {
		_ = godotenv.Load(f)
	}
}

func readFileConfig(path string) (fileConfig, error) {
	fc := defaultFileConfig()
	if strings.TrimSpace(path) == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config file: %w", err)
	}
	return fc, nil
}

// LoadConfig resolves configuration from .env files, CONFIG_FILE and the
// process environment, in increasing order of precedence.
func LoadConfig() (Config, error) {
	loadEnvFiles()

	fc, err := readFileConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	autoMigrate := true
	if fc.DB.AutoMigrate != nil {
		autoMigrate = *fc.DB.AutoMigrate
	}

	cfg := Config{
		Env:     envutil.String("APP_ENV", fc.Env),
		Port:    envutil.String("PORT", fc.Port),
		LogMode: envutil.String("LOG_MODE", fc.LogMode),
		DB: db.Config{
			Driver:          envutil.String("DB_DRIVER", fc.DB.Driver),
			DSN:             envutil.String("DATABASE_URL", fc.DB.URL),
			Host:            envutil.String("POSTGRES_HOST", fc.DB.Host),
			Port:            envutil.String("POSTGRES_PORT", fc.DB.Port),
			User:            envutil.String("POSTGRES_USER", fc.DB.User),
			Password:        envutil.String("POSTGRES_PASSWORD", fc.DB.Password),
			Name:            envutil.String("POSTGRES_NAME", fc.DB.Name),
			SSLMode:         envutil.String("POSTGRES_SSLMODE", fc.DB.SSLMode),
			SQLitePath:      envutil.String("SQLITE_PATH", fc.DB.SQLitePath),
			MaxOpenConns:    envutil.Int("DB_MAX_OPEN_CONNS", fc.DB.MaxOpenConns),
			MaxIdleConns:    envutil.Int("DB_MAX_IDLE_CONNS", fc.DB.MaxIdleConns),
			ConnMaxLifetime: envutil.Duration("DB_CONN_MAX_LIFETIME", fc.DB.ConnMaxLifetime),
		},
		AutoMigrate: envutil.Bool("DB_AUTO_MIGRATE", autoMigrate),
		JWTSecret:   envutil.String("JWT_SECRET", ""),
		TokenTTL:    envutil.Duration("TOKEN_TTL", fc.Auth.TokenTTL),
		Redis: redisbus.Config{
			Addr:    envutil.String("REDIS_ADDR", fc.Redis.Addr),
			Channel: envutil.String("REDIS_CHANNEL", fc.Redis.Channel),
		},
		CORSOrigins: envutil.List("CORS_ORIGINS", fc.CORSOrigins),
		Retry: catalog.RetryConfig{
			MaxTries:        uint(envutil.Int("EVAL_RETRY_MAX_TRIES", int(fc.Retry.MaxTries))),
			InitialInterval: envutil.Duration("EVAL_RETRY_INITIAL_INTERVAL", fc.Retry.InitialInterval),
		},
	}

	cfg.Otel = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", fc.Otel.Enabled),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", serviceName),
		Environment: cfg.Env,
		Version:     envutil.String("SERVICE_VERSION", "dev"),
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", fc.Otel.Endpoint),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", fc.Otel.Insecure),
		Headers:     observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", fc.Otel.SampleRatio),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var errMissingJWTSecret = errors.New("JWT_SECRET is required in production")

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.Production() {
			return errMissingJWTSecret
		}
		c.JWTSecret = devSecret
		c.JWTSecretDefaulted = true
	}
	switch strings.ToLower(c.DB.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
