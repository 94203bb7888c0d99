// Package config loads the service settings: built-in defaults, then an
// optional config.yaml, then STOREFRONT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Ban       BanConfig       `mapstructure:"ban"`
	UI        UIConfig        `mapstructure:"ui"`
	Images    ImagesConfig    `mapstructure:"images"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type BackendConfig struct {
	ProjectURL    string        `mapstructure:"project_url"`
	FunctionsPath string        `mapstructure:"functions_path"`
	AnonKey       string        `mapstructure:"anon_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Catalog sources.
const (
	SourceBackend  = "backend"
	SourcePostgres = "postgres"
	SourceMemory   = "memory"
)

type CatalogConfig struct {
	Source      string        `mapstructure:"source"`
	RefreshCron string        `mapstructure:"refresh_cron"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	KVTable string `mapstructure:"kv_table"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type BanConfig struct {
	MaxStrikes int           `mapstructure:"max_strikes"`
	Duration   time.Duration `mapstructure:"duration"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

type ImagesConfig struct {
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("backend.project_url", "")
	v.SetDefault("backend.functions_path", "make-server-52d68140")
	v.SetDefault("backend.anon_key", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("catalog.source", SourceBackend)
	v.SetDefault("catalog.refresh_cron", "@every 5m")
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)
	v.SetDefault("database.url", "")
	v.SetDefault("database.kv_table", "kv_store_52d68140")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("ratelimit.rps", 1.0)
	v.SetDefault("ratelimit.burst", 3)
	v.SetDefault("ban.max_strikes", 5)
	v.SetDefault("ban.duration", 15*time.Minute)
	v.SetDefault("ui.theme", "light")
	v.SetDefault("images.max_upload_bytes", 5<<20)
}

// Load reads the configuration. configFile may be empty, in which case a
// config.yaml in the working directory is used when present.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings the chosen catalog source and auth need.
func (c Config) Validate() error {
	var errs []error
	switch c.Catalog.Source {
	case SourceBackend:
		if c.Backend.ProjectURL == "" {
			errs = append(errs, errors.New("backend.project_url is required for the backend catalog source"))
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for the postgres catalog source"))
		}
	case SourceMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown catalog.source %q", c.Catalog.Source))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("ratelimit.rps and ratelimit.burst must be positive"))
	}
	return errors.Join(errs...)
}
