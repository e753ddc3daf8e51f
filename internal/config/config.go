package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppEnv             = "dev"
	defaultPort               = "8080"
	defaultDBDriver           = "sqlite"
	defaultDBPath             = "./dev.db"
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
	defaultMaxTraversalDepth  = 50
	defaultMaxStructureLevels = 20
	defaultFetchConcurrency   = 8
	defaultItemCodeMaxLength  = 16
	defaultRequestTimeout     = 30 * time.Second
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DBDriver       string
	DBPath         string
	DatabaseURL    string
	LogLevel       string
	LogFormat      string
	APITokenSecret string

	MaxTraversalDepth  int
	MaxStructureLevels int
	FetchConcurrency   int
	ItemCodeMaxLength  int
	RequestTimeout     time.Duration
	SeedDemo           bool

	// Warnings lists problems found while loading. Load never fails; the
	// caller decides how to report them.
	Warnings []string
}

// IsDev reports whether the service runs in the development environment.
func (c Config) IsDev() bool {
	return c.AppEnv == defaultAppEnv
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real environment variables.
	_ = loadDotEnv(".env")

	cfg := Config{
		AppEnv:         getString("APP_ENV", defaultAppEnv),
		Port:           getString("PORT", defaultPort),
		DBDriver:       strings.ToLower(getString("DB_DRIVER", defaultDBDriver)),
		DBPath:         getString("DB_PATH", defaultDBPath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getString("LOG_LEVEL", defaultLogLevel),
		LogFormat:      getString("LOG_FORMAT", defaultLogFormat),
		APITokenSecret: os.Getenv("API_TOKEN_SECRET"),
	}

	cfg.MaxTraversalDepth = cfg.getPositiveInt("MAX_TRAVERSAL_DEPTH", defaultMaxTraversalDepth)
	cfg.MaxStructureLevels = cfg.getPositiveInt("MAX_STRUCTURE_LEVELS", defaultMaxStructureLevels)
	cfg.FetchConcurrency = cfg.getPositiveInt("FETCH_CONCURRENCY", defaultFetchConcurrency)
	cfg.ItemCodeMaxLength = cfg.getPositiveInt("ITEM_CODE_MAX_LENGTH", defaultItemCodeMaxLength)
	cfg.RequestTimeout = cfg.getDuration("REQUEST_TIMEOUT", defaultRequestTimeout)
	cfg.SeedDemo = cfg.getBool("SEED_DEMO", false)

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			cfg.warn("DATABASE_URL is not set but DB_DRIVER is postgres")
		}
	default:
		cfg.warn(fmt.Sprintf("DB_DRIVER %q is not supported, using %s", cfg.DBDriver, defaultDBDriver))
		cfg.DBDriver = defaultDBDriver
	}

	if cfg.APITokenSecret == "" {
		cfg.warn("API_TOKEN_SECRET is not set, API authentication is disabled")
	}

	return cfg
}

func (c *Config) warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (c *Config) getPositiveInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.warn(fmt.Sprintf("%s=%q is not a positive integer, using %d", key, raw, fallback))
		return fallback
	}
	return n
}

func (c *Config) getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		c.warn(fmt.Sprintf("%s=%q is not a positive duration, using %s", key, raw, fallback))
		return fallback
	}
	return d
}

func (c *Config) getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		c.warn(fmt.Sprintf("%s=%q is not a boolean, using %t", key, raw, fallback))
		return fallback
	}
	return b
}
