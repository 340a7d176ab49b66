package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

// Config holds the configuration for the modhub server and command line client.
type Config struct {
	// Listen is the address the web UI will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// SessionKey is the key used to encrypt session data.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// SecureCookies marks session cookies as secure (HTTPS only).
	SecureCookies bool `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	// API holds the external auth and mods endpoints.
	API *APIConfig `yaml:"api" mapstructure:"api"`
	// Catalog holds the catalog loading configuration.
	Catalog *CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	// Cache holds the cache engine configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Gravatar holds the configuration for Gravatar profile pictures.
	Gravatar *GravatarConfig `yaml:"gravatar" mapstructure:"gravatar"`
	// Locale holds the localization configuration.
	Locale *LocaleConfig `yaml:"locale" mapstructure:"locale"`
	// RateLimit holds the throttling configuration for the auth forms.
	RateLimit *RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// APIConfig holds the configuration for the external marketplace API.
type APIConfig struct {
	// AuthURL is the URL of the auth endpoint.
	AuthURL string `yaml:"auth_url" mapstructure:"auth_url"`
	// ModsURL is the URL of the mods endpoint.
	ModsURL string `yaml:"mods_url" mapstructure:"mods_url"`
	// TokenHeader is the header carrying the bearer token.
	TokenHeader string `yaml:"token_header" mapstructure:"token_header"`
	// Timeout is the HTTP client timeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CatalogConfig holds the configuration for loading the mod catalog.
type CatalogConfig struct {
	// CacheTTL is how long a loaded mod list is kept in the cache.
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	// RefreshInterval is the interval of the background refresh job. Zero disables it.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`
}

// CacheConfig holds the configuration for the cache engine.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the URL for the Redis cache if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// GravatarConfig holds the configuration for Gravatar profile pictures.
type GravatarConfig struct {
	// Enabled indicates whether Gravatar support is enabled.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// DefaultImage is the default image to use when no Gravatar is found.
	// Valid values: "404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"
	DefaultImage string `yaml:"default_image" mapstructure:"default_image"`
	// Rating is the maximum rating for Gravatar images.
	// Valid values: "g", "pg", "r", "x"
	Rating string `yaml:"rating" mapstructure:"rating"`
	// Size is the size of the Gravatar image in pixels (1-2048).
	Size int `yaml:"size" mapstructure:"size"`
}

// LocaleConfig holds the localization configuration.
type LocaleConfig struct {
	// Default is the language used when the browser asks for none we know.
	Default string `yaml:"default" mapstructure:"default"`
}

// RateLimitConfig holds the per-IP limits for the auth forms.
type RateLimitConfig struct {
	// AuthPerMinute is the number of login/register posts allowed per minute. Zero disables the limit.
	AuthPerMinute int `yaml:"auth_per_minute" mapstructure:"auth_per_minute"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	bindNestedEnv(v)
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("MODHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.modhub")
		v.AddConfigPath("/etc/modhub")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with the MODHUB_ prefix override config file values")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3002")
	v.SetDefault("log_level", "info")
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 2592000) // 30 days, same as the server side session
	v.SetDefault("secure_cookies", false)

	// API defaults
	v.SetDefault("api.token_header", "Authorization")
	v.SetDefault("api.timeout", 30*time.Second)

	// Catalog defaults
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)
	v.SetDefault("catalog.refresh_interval", 10*time.Minute)

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")

	// Database defaults
	v.SetDefault("database.path", "./data/modhub.db")

	// Gravatar defaults
	v.SetDefault("gravatar.enabled", false)
	v.SetDefault("gravatar.default_image", "robohash")
	v.SetDefault("gravatar.rating", "g")
	v.SetDefault("gravatar.size", 80)

	v.SetDefault("locale.default", "ru")
	v.SetDefault("rate_limit.auth_per_minute", 20)
}

// the auto env function from viper only works for nested keys that have a default.
// The endpoints deliberately have none, so their env vars are bound manually.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("api.auth_url", "MODHUB_API_AUTH_URL")
	v.MustBindEnv("api.mods_url", "MODHUB_API_MODS_URL")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing modhub config")
	}

	if c.API == nil {
		return fmt.Errorf("missing api config")
	}
	if c.API.AuthURL == "" {
		return fmt.Errorf("auth URL is required")
	}
	if c.API.ModsURL == "" {
		return fmt.Errorf("mods URL is required")
	}
	if c.API.TokenHeader == "" {
		return fmt.Errorf("token header must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be greater than 0")
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("session max age must be greater than 0")
	}

	if c.Catalog == nil {
		c.Catalog = &CatalogConfig{CacheTTL: 5 * time.Minute}
	}
	if c.Catalog.CacheTTL < 0 || c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("catalog durations must not be negative")
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type != CacheTypeMemory && c.Cache.Type != CacheTypeRedis {
			return fmt.Errorf("unknown cache type %q", c.Cache.Type)
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
		}
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Gravatar == nil {
		c.Gravatar = &GravatarConfig{}
	}
	if c.Locale == nil || c.Locale.Default == "" {
		c.Locale = &LocaleConfig{Default: "ru"}
	}
	if c.RateLimit == nil {
		c.RateLimit = &RateLimitConfig{}
	}
	if c.RateLimit.AuthPerMinute < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	return nil
}

// ValidateServe checks the settings only the web server needs.
func (c *Config) ValidateServe() error {
	if c.SessionKey == "" {
		return fmt.Errorf("session key is required")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = urlSanitize(c.Listen)

	if c.API != nil {
		c.API.AuthURL = urlSanitize(c.API.AuthURL)
		c.API.ModsURL = urlSanitize(c.API.ModsURL)
		c.API.TokenHeader = strings.TrimSpace(c.API.TokenHeader)
	}

	if c.Cache != nil {
		c.Cache.RedisURL = strings.TrimSpace(c.Cache.RedisURL)
	}
}

func urlSanitize(url string) string {
	return strings.TrimSuffix(strings.TrimSpace(url), "/")
}
