// Package config loads service configuration from a file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/jonathan/smartmatch/internal/matching"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the service.
const EnvPrefix = "SMARTMATCH"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "smartmatch.yaml"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigin      string        `mapstructure:"cors_origin"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig enables the catalog snapshot cache when URL is set and
// CatalogTTL is positive.
type RedisConfig struct {
	URL        string        `mapstructure:"url"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
}

// CacheEnabled reports whether the catalog cache should be used.
func (c RedisConfig) CacheEnabled() bool {
	return c.URL != "" && c.CatalogTTL > 0
}

type MatchingConfig struct {
	Limit  int                                   `mapstructure:"limit"`
	Ranges map[matching.Attribute]matching.Range `mapstructure:"ranges"`
}

// EngineConfig converts the section into engine settings.
func (c MatchingConfig) EngineConfig() matching.Config {
	ranges := make(map[matching.Attribute]matching.Range, len(c.Ranges))
	for attr, r := range c.Ranges {
		ranges[attr] = r
	}
	return matching.Config{Ranges: ranges, Limit: c.Limit}
}

type SchedulerConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ExpireSpec string `mapstructure:"expire_spec"`
}

type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
	PasswordPepper     string `mapstructure:"password_pepper"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// NewViper returns a viper instance with defaults and environment bindings.
// Environment variables use the SMARTMATCH_ prefix with dots replaced by
// underscores, e.g. SMARTMATCH_MATCHING_LIMIT. DATABASE_URL, REDIS_URL and
// JWT_SECRET are also honoured without the prefix.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.url", EnvPrefix+"_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("auth.jwt_secret", EnvPrefix+"_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("database.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.catalog_ttl", time.Duration(0))

	v.SetDefault("matching.limit", matching.DefaultLimit)
	for attr, r := range matching.DefaultRanges() {
		v.SetDefault(fmt.Sprintf("matching.ranges.%s.lo", attr), r.Lo)
		v.SetDefault(fmt.Sprintf("matching.ranges.%s.hi", attr), r.Hi)
	}

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.expire_spec", "@every 1h")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration_hours", 24)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.password_pepper", "")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 120)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads the config file at path into v and decodes the result. An empty
// path looks for DefaultFile in the working directory and tolerates its absence.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigFile(DefaultFile)
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file %s: %w", DefaultFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Validate checks that the configuration has valid values.
// Requirements that only some commands have (database, JWT secret) are checked
// by those commands.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if _, err := matching.New(c.Matching.EngineConfig()); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Redis.CatalogTTL < 0 {
		return fmt.Errorf("config error: 'redis.catalog_ttl' must be non-negative")
	}
	if c.Scheduler.Enabled && strings.TrimSpace(c.Scheduler.ExpireSpec) == "" {
		return fmt.Errorf("config error: 'scheduler.expire_spec' is required when the scheduler is enabled")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute < 1 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("config error: 'rate_limit' requires positive requests_per_minute and burst")
	}
	return nil
}
