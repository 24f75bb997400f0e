// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/headcount/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Lookup    LookupConfig    `yaml:"lookup" mapstructure:"lookup"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LookupConfig configures lookup fan-out, retry, and caching behavior.
type LookupConfig struct {
	Concurrency      int     `yaml:"concurrency" mapstructure:"concurrency"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RateLimitRPS     float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	CacheTTLHours    int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	BreakerFailures  int     `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerResetSecs int     `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// StoreConfig configures the lookup-cache backend. Driver is one of
// "sqlite", "postgres", or "none".
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"`
	Path        string            `yaml:"path" mapstructure:"path"`
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HEADCOUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 300)
	v.SetDefault("lookup.concurrency", 4)
	v.SetDefault("lookup.timeout_secs", 45)
	v.SetDefault("lookup.max_attempts", 3)
	v.SetDefault("lookup.rate_limit_rps", 2)
	v.SetDefault("lookup.cache_ttl_hours", 24)
	v.SetDefault("lookup.breaker_failures", 5)
	v.SetDefault("lookup.breaker_reset_secs", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "headcount.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that settings required for live lookups are present.
func (c *Config) Validate() error {
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required (HEADCOUNT_ANTHROPIC_KEY)")
	}
	if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required for the postgres driver")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
