package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	API   APIConfig
	Redis RedisConfig
	JWT   JWTConfig
	Guest GuestConfig
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
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" required:"true" validate:"url"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis-backed guest store is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret string `envconfig:"STOREFRONT_JWT_SECRET"`
	Issuer string `envconfig:"STOREFRONT_JWT_ISSUER"`
}

type GuestConfig struct {
	IDTTLMinutes int `envconfig:"STOREFRONT_GUEST_ID_TTL_MINUTES" default:"43200"`
}

// IDTTL returns the guest identifier TTL configured in minutes.
func (g GuestConfig) IDTTL() time.Duration {
	if g.IDTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(g.IDTTLMinutes) * time.Minute
}
