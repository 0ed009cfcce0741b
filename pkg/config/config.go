package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "QUOTE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case DriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("QUOTE_DB_DSN is required for driver %q", c.DB.Driver)
		}
	case DriverSQLite:
		if c.DB.DSN == "" {
			c.DB.DSN = "file:catalog.db?cache=shared"
		}
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if c.Catalog.SearchThreshold <= 0 || c.Catalog.SearchThreshold > 1 {
		return fmt.Errorf("QUOTE_CATALOG_SEARCH_THRESHOLD must be in (0,1], got %v", c.Catalog.SearchThreshold)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"QUOTE_APP_ENV" default:"dev"`
	Port         string `envconfig:"QUOTE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"QUOTE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"QUOTE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"QUOTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"QUOTE_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"QUOTE_DB_DSN"`

	MaxOpenConns    int           `envconfig:"QUOTE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"QUOTE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"QUOTE_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QUOTE_REDIS_URL"`
	Address      string        `envconfig:"QUOTE_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"QUOTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUOTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUOTE_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"QUOTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUOTE_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"QUOTE_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"QUOTE_SESSION_TTL" default:"72h"`
}

type CatalogConfig struct {
	SeedOnBoot      bool    `envconfig:"QUOTE_CATALOG_SEED" default:"true"`
	SearchThreshold float64 `envconfig:"QUOTE_CATALOG_SEARCH_THRESHOLD" default:"0.4"`
	SuggestLimit    int     `envconfig:"QUOTE_CATALOG_SUGGEST_LIMIT" default:"5"`
}
