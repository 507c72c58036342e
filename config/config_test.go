package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("STEAMEXPLORER_SERVER_PORT")
		os.Unsetenv("STEAMEXPLORER_SERVER_ENVIRONMENT")
		os.Unsetenv("STEAMEXPLORER_STEAM_API_KEY")
		os.Unsetenv("STEAMEXPLORER_STEAM_API_BASE_URL")
		os.Unsetenv("STEAMEXPLORER_CACHE_CATALOG_TTL")
		os.Unsetenv("STEAMEXPLORER_SEARCH_WORKERS")
		os.Unsetenv("STEAMEXPLORER_SEARCH_DETAIL_CANDIDATES")
		os.Unsetenv("STEAMEXPLORER_RATELIMIT_PER_IP")
		os.Unsetenv("STEAMEXPLORER_AUTH_JWT_SECRET")
		os.Unsetenv("STEAMEXPLORER_AUTH_TOKEN_TTL")
	}

	setRequired := func() {
		os.Setenv("STEAMEXPLORER_STEAM_API_KEY", "test-key")
		os.Setenv("STEAMEXPLORER_AUTH_JWT_SECRET", "test-secret")
	}

	t.Run("loads with defaults when only required env vars set", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "5001" {
			t.Errorf("Server.Port = %s, want 5001", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Steam.APIBaseURL != "https://api.steampowered.com" {
			t.Errorf("Steam.APIBaseURL = %s, want https://api.steampowered.com", cfg.Steam.APIBaseURL)
		}
		if cfg.Steam.StoreBaseURL != "https://store.steampowered.com" {
			t.Errorf("Steam.StoreBaseURL = %s, want https://store.steampowered.com", cfg.Steam.StoreBaseURL)
		}
		if cfg.Steam.DetailTimeout != 5*time.Second {
			t.Errorf("Steam.DetailTimeout = %v, want 5s", cfg.Steam.DetailTimeout)
		}
		if cfg.Cache.CatalogTTL != time.Hour {
			t.Errorf("Cache.CatalogTTL = %v, want 1h", cfg.Cache.CatalogTTL)
		}
		if cfg.Search.MatchLimit != 50 || cfg.Search.DetailCandidates != 20 ||
			cfg.Search.Workers != 10 || cfg.Search.ResultLimit != 20 {
			t.Errorf("Search = %+v, want 50/20/10/20", cfg.Search)
		}
		if cfg.Auth.TokenTTL != 24*time.Hour {
			t.Errorf("Auth.TokenTTL = %v, want 24h", cfg.Auth.TokenTTL)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		os.Setenv("STEAMEXPLORER_SERVER_PORT", "9090")
		os.Setenv("STEAMEXPLORER_SERVER_ENVIRONMENT", "production")
		os.Setenv("STEAMEXPLORER_STEAM_API_BASE_URL", "https://custom.api.com")
		os.Setenv("STEAMEXPLORER_CACHE_CATALOG_TTL", "30m")
		os.Setenv("STEAMEXPLORER_SEARCH_WORKERS", "4")
		os.Setenv("STEAMEXPLORER_RATELIMIT_PER_IP", "200")
		os.Setenv("STEAMEXPLORER_AUTH_TOKEN_TTL", "2h")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Steam.APIKey != "test-key" {
			t.Errorf("Steam.APIKey = %s, want test-key", cfg.Steam.APIKey)
		}
		if cfg.Steam.APIBaseURL != "https://custom.api.com" {
			t.Errorf("Steam.APIBaseURL = %s, want https://custom.api.com", cfg.Steam.APIBaseURL)
		}
		if cfg.Cache.CatalogTTL != 30*time.Minute {
			t.Errorf("Cache.CatalogTTL = %v, want 30m", cfg.Cache.CatalogTTL)
		}
		if cfg.Search.Workers != 4 {
			t.Errorf("Search.Workers = %d, want 4", cfg.Search.Workers)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Auth.JWTSecret != "test-secret" {
			t.Errorf("Auth.JWTSecret = %s, want test-secret", cfg.Auth.JWTSecret)
		}
		if cfg.Auth.TokenTTL != 2*time.Hour {
			t.Errorf("Auth.TokenTTL = %v, want 2h", cfg.Auth.TokenTTL)
		}
	})

	t.Run("fails validation when API key is missing", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STEAMEXPLORER_AUTH_JWT_SECRET", "test-secret")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing API key")
		}
		if err.Error() != "invalid configuration: Steam API key is required (set STEAMEXPLORER_STEAM_API_KEY)" {
			t.Errorf("Load() error = %v, want 'Steam API key is required'", err)
		}
	})

	t.Run("fails validation when JWT secret is missing", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STEAMEXPLORER_STEAM_API_KEY", "test-key")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing JWT secret")
		}
	})

	t.Run("fails validation when candidates exceed match limit", func(t *testing.T) {
		cleanupEnv()
		setRequired()
		os.Setenv("STEAMEXPLORER_SEARCH_DETAIL_CANDIDATES", "80")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for detail_candidates > match_limit")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1

# TEST_COMMENTED=should_not_load
TEST_VAR_2=value2
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Steam:  SteamConfig{APIKey: "test-key"},
			Auth:   AuthConfig{JWTSecret: "secret"},
			Search: SearchConfig{MatchLimit: 50, DetailCandidates: 20, Workers: 10, ResultLimit: 20},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when API key is empty", func(t *testing.T) {
		cfg := valid()
		cfg.Steam.APIKey = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty API key")
		}
	})

	t.Run("fails when JWT secret is empty", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.JWTSecret = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty JWT secret")
		}
	})

	t.Run("fails for zero workers", func(t *testing.T) {
		cfg := valid()
		cfg.Search.Workers = 0
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero workers")
		}
	})
}
