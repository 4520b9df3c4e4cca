package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Env is the process configuration, read from environment variables.
type Env struct {
	AppAddr  string `env:"APP_ADDR" envDefault:":8080" validate:"required"`
	GinMode  string `env:"GIN_MODE" validate:"omitempty,oneof=debug release test"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// LogPretty switches to the human-readable console writer.
	LogPretty   bool     `env:"LOG_PRETTY"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"`

	DB    DBConfig    `envPrefix:"DB_"`
	Cache CacheConfig `envPrefix:"CACHE_"`
	Query QueryConfig `envPrefix:"QUERY_"`
}

type DBConfig struct {
	User            string        `env:"USER" envDefault:"root" validate:"required"`
	Password        string        `env:"PASSWORD"`
	Addr            string        `env:"ADDR" envDefault:"127.0.0.1:3306" validate:"required,hostname_port"`
	Name            string        `env:"NAME" envDefault:"triphub" validate:"required"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25" validate:"gte=1"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"25" validate:"gte=0"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"10m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"5m"`
	// QueryTimeout bounds each provider query.
	QueryTimeout time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s" validate:"gt=0"`
}

type CacheConfig struct {
	MaxItems int           `env:"MAX_ITEMS" envDefault:"500" validate:"gte=1"`
	MaxBytes int64         `env:"MAX_BYTES" envDefault:"67108864" validate:"gte=0"`
	TTL      time.Duration `env:"TTL" envDefault:"5m" validate:"gte=0"`
}

type QueryConfig struct {
	DefaultLimit    int    `env:"DEFAULT_LIMIT" envDefault:"20" validate:"gte=1,ltefield=MaxLimit"`
	MaxLimit        int    `env:"MAX_LIMIT" envDefault:"100" validate:"gte=1"`
	MaxResultWindow int    `env:"MAX_RESULT_WINDOW" envDefault:"10000" validate:"gtefield=MaxLimit"`
	Strict          bool   `env:"STRICT"`
	Timezone        string `env:"TIMEZONE" envDefault:"UTC" validate:"timezone"`
}

// Location resolves Timezone; validation already guarantees it loads.
func (q QueryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadEnv parses and validates the environment.
func LoadEnv() (Env, error) {
	return parseEnv(env.Options{})
}

func parseEnv(opts env.Options) (Env, error) {
	var cfg Env
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Env{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
