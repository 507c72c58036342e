package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Steam     SteamConfig     `mapstructure:"steam"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Search    SearchConfig    `mapstructure:"search"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Host      HostConfig      `mapstructure:"host"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SteamConfig holds Steam Web and Store API configuration
type SteamConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	StoreBaseURL   string        `mapstructure:"store_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	DetailTimeout  time.Duration `mapstructure:"detail_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests per second
	RateBurst      int           `mapstructure:"rate_burst"`
	MaxRetries     int           `mapstructure:"max_retries"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	CatalogTTL time.Duration `mapstructure:"catalog_ttl"`
	DetailsTTL time.Duration `mapstructure:"details_ttl"`
}

// SearchConfig holds the bounds of the search fan-out
type SearchConfig struct {
	MatchLimit       int `mapstructure:"match_limit"`
	DetailCandidates int `mapstructure:"detail_candidates"`
	Workers          int `mapstructure:"workers"`
	ResultLimit      int `mapstructure:"result_limit"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// AuthConfig holds account storage and token configuration
type AuthConfig struct {
	DatabasePath string        `mapstructure:"database_path"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

// HostConfig holds host inspection configuration
type HostConfig struct {
	CPUSampleInterval time.Duration `mapstructure:"cpu_sample_interval"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/steamexplorer/")

	// STEAMEXPLORER_STEAM_API_KEY -> steam.api_key
	v.SetEnvPrefix("STEAMEXPLORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Keys without defaults are invisible to Unmarshal unless bound
	for _, key := range []string{"steam.api_key", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5001")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// Steam defaults
	v.SetDefault("steam.api_base_url", "https://api.steampowered.com")
	v.SetDefault("steam.store_base_url", "https://store.steampowered.com")
	v.SetDefault("steam.request_timeout", "10s")
	v.SetDefault("steam.detail_timeout", "5s")
	v.SetDefault("steam.rate_limit", 10.0)
	v.SetDefault("steam.rate_burst", 20)
	v.SetDefault("steam.max_retries", 3)

	// Cache defaults
	v.SetDefault("cache.catalog_ttl", "1h")
	v.SetDefault("cache.details_ttl", "10m")

	// Search defaults
	v.SetDefault("search.match_limit", 50)
	v.SetDefault("search.detail_candidates", 20)
	v.SetDefault("search.workers", 10)
	v.SetDefault("search.result_limit", 20)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)

	// Auth defaults
	v.SetDefault("auth.database_path", "steamexplorer.db")
	v.SetDefault("auth.token_ttl", "24h")

	// Host defaults
	v.SetDefault("host.cpu_sample_interval", "1s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Steam.APIKey == "" {
		return fmt.Errorf("Steam API key is required (set STEAMEXPLORER_STEAM_API_KEY)")
	}

	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set STEAMEXPLORER_AUTH_JWT_SECRET)")
	}

	if config.Search.Workers < 1 {
		return fmt.Errorf("search workers must be at least 1, got: %d", config.Search.Workers)
	}

	if config.Search.ResultLimit < 1 || config.Search.DetailCandidates < 1 || config.Search.MatchLimit < 1 {
		return fmt.Errorf("search limits must be positive")
	}

	if config.Search.DetailCandidates > config.Search.MatchLimit {
		return fmt.Errorf("search detail_candidates (%d) cannot exceed match_limit (%d)",
			config.Search.DetailCandidates, config.Search.MatchLimit)
	}

	return nil
}
