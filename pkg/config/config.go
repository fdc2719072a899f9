// Package config loads service configuration from an optional .env file, an
// optional config.yaml and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendAuto   = ""
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type GitHubConfig struct {
	Token    string        `mapstructure:"token"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`

	// MaxRPS caps outbound GraphQL calls per second. Zero disables it.
	MaxRPS float64 `mapstructure:"max_rps"`
}

type StoreConfig struct {
	Backend string `mapstructure:"backend"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type RateLimitConfig struct {
	IPPerMinute int `mapstructure:"ip_per_minute"`
	UserPerHour int `mapstructure:"user_per_hour"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"server.port":             "PORT",
	"server.shutdown_timeout": "SHUTDOWN_TIMEOUT",
	"log.level":               "LOG_LEVEL",
	"log.pretty":              "LOG_PRETTY",
	"github.token":            "GITHUB_TOKEN",
	"github.endpoint":         "GITHUB_API_URL",
	"github.timeout":          "GITHUB_TIMEOUT",
	"github.max_rps":          "GITHUB_MAX_RPS",
	"store.backend":           "STORE_BACKEND",
	"redis.url":               "REDIS_URL",
	"ratelimit.ip_per_minute": "RATE_LIMIT_IP_PER_MINUTE",
	"ratelimit.user_per_hour": "RATE_LIMIT_USER_PER_HOUR",
	"metrics.enabled":         "METRICS_ENABLED",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("github.token", "")
	v.SetDefault("github.endpoint", "https://api.github.com/graphql")
	v.SetDefault("github.timeout", 10*time.Second)
	v.SetDefault("github.max_rps", 0)
	v.SetDefault("store.backend", BackendAuto)
	v.SetDefault("redis.url", "")
	v.SetDefault("ratelimit.ip_per_minute", 30)
	v.SetDefault("ratelimit.user_per_hour", 50)
	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from dir. An empty dir means the working
// directory. Missing .env and config.yaml files are not errors.
func Load(dir string) (*Config, error) {
	var err error
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	envFile := filepath.Join(dir, ".env")
	if _, err = os.Stat(envFile); err == nil {
		if err = godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err = v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Store.Backend {
	case BackendAuto, BackendRedis, BackendMemory, BackendNone:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == BackendRedis && c.Redis.URL == "" {
		return errors.New("store backend redis requires REDIS_URL")
	}
	if c.RateLimit.IPPerMinute <= 0 || c.RateLimit.UserPerHour <= 0 {
		return errors.New("rate limits must be positive")
	}
	if c.GitHub.MaxRPS < 0 {
		return errors.New("github max rps must not be negative")
	}
	return nil
}

// StoreBackend resolves the auto backend: redis when a URL is configured,
// otherwise none.
func (c *Config) StoreBackend() string {
	if c.Store.Backend != BackendAuto {
		return c.Store.Backend
	}
	if c.Redis.URL != "" {
		return BackendRedis
	}
	return BackendNone
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
