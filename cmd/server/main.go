package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/steamexplorer/backend/config"
	httpDelivery "github.com/steamexplorer/backend/internal/delivery/http"
	"github.com/steamexplorer/backend/internal/domain"
	"github.com/steamexplorer/backend/internal/infrastructure/cache"
	"github.com/steamexplorer/backend/internal/infrastructure/hostinfo"
	"github.com/steamexplorer/backend/internal/infrastructure/steam"
	"github.com/steamexplorer/backend/internal/infrastructure/userstore"
	"github.com/steamexplorer/backend/internal/logging"
	"github.com/steamexplorer/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.Setup(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	logger.Info("starting Steam Explorer backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	// Initialize infrastructure dependencies
	steamClient := steam.NewClient(steam.ClientConfig{
		APIKey:       cfg.Steam.APIKey,
		APIBaseURL:   cfg.Steam.APIBaseURL,
		StoreBaseURL: cfg.Steam.StoreBaseURL,
		Timeout:      cfg.Steam.RequestTimeout,
		RateLimit:    cfg.Steam.RateLimit,
		RateBurst:    cfg.Steam.RateBurst,
		MaxRetries:   cfg.Steam.MaxRetries,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		steamClient.SetDebug(true)
		logger.Debug("steam client debug mode enabled")
	}

	logger.Info("steam API configured",
		"api_base_url", cfg.Steam.APIBaseURL,
		"store_base_url", cfg.Steam.StoreBaseURL,
		"rate_limit", cfg.Steam.RateLimit,
	)

	// Room for every retry of the app list request
	catalogCache := cache.NewCatalogCache(steamClient, cfg.Cache.CatalogTTL,
		cache.WithFetchTimeout(cfg.Steam.RequestTimeout*time.Duration(cfg.Steam.MaxRetries+1)),
	)
	detailsCache := cache.NewMemoryCache[*domain.GameDetails](time.Minute)
	defer detailsCache.Close()

	logger.Info("caches configured", "catalog_ttl", cfg.Cache.CatalogTTL, "details_ttl", cfg.Cache.DetailsTTL)

	users, err := userstore.Open(cfg.Auth.DatabasePath)
	if err != nil {
		return err
	}
	defer users.Close()

	inspector := hostinfo.NewInspector(hostinfo.DefaultProbes(), cfg.Host.CPUSampleInterval)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		catalogCache,
		usecase.NewDetailFetcher(steamClient, cfg.Steam.DetailTimeout),
		usecase.SearchConfig{
			MatchLimit:       cfg.Search.MatchLimit,
			DetailCandidates: cfg.Search.DetailCandidates,
			Workers:          cfg.Search.Workers,
			ResultLimit:      cfg.Search.ResultLimit,
		},
	)

	logger.Info("search configured",
		"match_limit", cfg.Search.MatchLimit,
		"detail_candidates", cfg.Search.DetailCandidates,
		"workers", cfg.Search.Workers,
		"result_limit", cfg.Search.ResultLimit,
	)

	gameService := usecase.NewGameService(steamClient, detailsCache, usecase.GameServiceConfig{
		DetailsTTL: cfg.Cache.DetailsTTL,
	})
	systemService := usecase.NewSystemService(inspector)
	authService := usecase.NewAuthService(users, usecase.AuthServiceConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(httpDelivery.Services{
		Search: searchService,
		Games:  gameService,
		System: systemService,
		Auth:   authService,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
