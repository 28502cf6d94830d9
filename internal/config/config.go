package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds every runtime setting. Values come from the environment,
// optionally seeded from a .env file.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	GRPCAddr    string `mapstructure:"GRPC_ADDR"`

	StorageDriver      string        `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL        string        `mapstructure:"POSTGRESQL_CONNECTION"`
	DBHost             string        `mapstructure:"DB_HOST"`
	DBPort             string        `mapstructure:"DB_PORT"`
	DBUser             string        `mapstructure:"DB_USER"`
	DBPassword         string        `mapstructure:"DB_PASSWORD"`
	DBName             string        `mapstructure:"DB_NAME"`
	DBSSLMode          string        `mapstructure:"DB_SSLMODE"`
	DBMaxOpenConns     int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns     int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetime  time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	DBAutoMigrate      bool          `mapstructure:"DB_AUTO_MIGRATE"`
	DBConnectRetries   int           `mapstructure:"DB_CONNECT_RETRIES"`
	DBConnectRetryWait time.Duration `mapstructure:"DB_CONNECT_RETRY_WAIT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	AlphaVantageAPIKey    string        `mapstructure:"ALPHAVANTAGE_API_KEY"`
	AlphaVantageBaseURL   string        `mapstructure:"ALPHAVANTAGE_BASE_URL"`
	AlphaVantageTimeout   time.Duration `mapstructure:"ALPHAVANTAGE_TIMEOUT"`
	AlphaVantageRateLimit int           `mapstructure:"ALPHAVANTAGE_RATE_PER_MINUTE"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	QuoteCacheTTL time.Duration `mapstructure:"QUOTE_CACHE_TTL"`

	KafkaBrokers     []string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopicPrefix string   `mapstructure:"KAFKA_TOPIC_PREFIX"`

	SeedCatalog bool `mapstructure:"SEED_CATALOG"`
}

var defaults = map[string]any{
	"ENVIRONMENT":                  "production",
	"HTTP_ADDR":                    ":8080",
	"GRPC_ADDR":                    ":9090",
	"STORAGE_DRIVER":               DriverPostgres,
	"POSTGRESQL_CONNECTION":        "",
	"DB_HOST":                      "localhost",
	"DB_PORT":                      "5432",
	"DB_USER":                      "postgres",
	"DB_PASSWORD":                  "postgres",
	"DB_NAME":                      "fintrack",
	"DB_SSLMODE":                   "disable",
	"DB_MAX_OPEN_CONNS":            25,
	"DB_MAX_IDLE_CONNS":            25,
	"DB_CONN_MAX_LIFETIME":         "5m",
	"DB_AUTO_MIGRATE":              true,
	"DB_CONNECT_RETRIES":           5,
	"DB_CONNECT_RETRY_WAIT":        "2s",
	"LOG_LEVEL":                    "info",
	"LOG_FORMAT":                   "json",
	"ALPHAVANTAGE_API_KEY":         "",
	"ALPHAVANTAGE_BASE_URL":        "https://www.alphavantage.co",
	"ALPHAVANTAGE_TIMEOUT":         "10s",
	"ALPHAVANTAGE_RATE_PER_MINUTE": 5,
	"REDIS_ADDR":                   "",
	"REDIS_PASSWORD":               "",
	"REDIS_DB":                     0,
	"QUOTE_CACHE_TTL":              "5m",
	"KAFKA_BROKERS":                "",
	"KAFKA_TOPIC_PREFIX":           "fintrack",
	"SEED_CATALOG":                 false,
}

// Load reads .env (if present) into the process environment and then builds
// a Config from the environment with defaults applied.
func Load() (Config, error) {
	// a missing .env is fine; the environment alone is enough
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (want %q or %q)", c.StorageDriver, DriverPostgres, DriverMemory)
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR must not be empty")
	}
	if c.QuoteCacheTTL < 0 {
		return errors.New("QUOTE_CACHE_TTL must not be negative")
	}
	return nil
}

// IsDevelopment reports whether error details may be exposed to clients
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// PostgresDSN returns POSTGRESQL_CONNECTION, or builds one from the DB_* parts
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
