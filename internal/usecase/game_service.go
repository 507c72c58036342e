package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/steamexplorer/backend/internal/domain"
	"github.com/steamexplorer/backend/internal/infrastructure/steam"
)

// Review and news paging bounds
const (
	defaultReviewsPerPage = 20
	maxReviewsPerPage     = 100
	defaultNewsCount      = 5
	maxNewsCount          = 20
)

// GameServiceConfig holds configuration for the game service
type GameServiceConfig struct {
	DetailsTTL time.Duration
}

// GameService serves per-app store, review, news and achievement data
type GameService struct {
	client     domain.SteamClient
	cache      domain.CacheRepository[*domain.GameDetails]
	detailsTTL time.Duration
}

// NewGameService creates a new game service with dependencies
func NewGameService(
	client domain.SteamClient,
	cache domain.CacheRepository[*domain.GameDetails],
	config GameServiceConfig,
) *GameService {
	detailsTTL := config.DetailsTTL
	if detailsTTL == 0 {
		detailsTTL = 10 * time.Minute
	}

	return &GameService{
		client:     client,
		cache:      cache,
		detailsTTL: detailsTTL,
	}
}

// Details returns the store page of a game with parsed PC requirements.
// Flow: check cache -> fetch store data -> map -> cache -> return
func (s *GameService) Details(ctx context.Context, appID int) (*domain.GameDetails, error) {
	cacheKey := fmt.Sprintf("details:%d", appID)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
		return cached, nil
	}

	data, err := s.client.GetAppDetails(ctx, appID)
	if err != nil {
		return nil, err
	}

	details := steam.MapToGameDetails(appID, data, ParseRequirements)

	if err := s.cache.Set(ctx, cacheKey, details, s.detailsTTL); err != nil {
		slog.Warn("failed to cache game details", "app_id", appID, "error", err)
	}

	return details, nil
}

// Requirements returns both requirement tiers of a game, parsed and raw.
// Served from the same cache entry as Details.
func (s *GameService) Requirements(ctx context.Context, appID int) (*domain.GameRequirementsResponse, error) {
	details, err := s.Details(ctx, appID)
	if err != nil {
		return nil, err
	}

	return &domain.GameRequirementsResponse{
		AppID:       appID,
		Parsed:      details.PCRequirements,
		Minimum:     details.RawPCRequirements.Minimum,
		Recommended: details.RawPCRequirements.Recommended,
	}, nil
}

// Reviews returns one page of user reviews. Empty query fields take the Steam defaults.
func (s *GameService) Reviews(ctx context.Context, appID int, query domain.ReviewQuery) (*domain.ReviewsPage, error) {
	resp, err := s.client.GetReviews(ctx, appID, normalizeReviewQuery(query))
	if err != nil {
		return nil, err
	}
	return steam.MapToReviewsPage(resp), nil
}

func normalizeReviewQuery(q domain.ReviewQuery) domain.ReviewQuery {
	if q.Filter == "" {
		q.Filter = "all"
	}
	if q.Language == "" {
		q.Language = "all"
	}
	if q.ReviewType == "" {
		q.ReviewType = "all"
	}
	if q.Cursor == "" {
		q.Cursor = "*"
	}
	switch {
	case q.NumPerPage <= 0:
		q.NumPerPage = defaultReviewsPerPage
	case q.NumPerPage > maxReviewsPerPage:
		q.NumPerPage = maxReviewsPerPage
	}
	return q
}

// News returns the latest news items of a game, count clamped to [1, 20]
func (s *GameService) News(ctx context.Context, appID int, count int) (*domain.NewsResponse, error) {
	switch {
	case count <= 0:
		count = defaultNewsCount
	case count > maxNewsCount:
		count = maxNewsCount
	}

	resp, err := s.client.GetNews(ctx, appID, count)
	if err != nil {
		return nil, err
	}

	news := resp.AppNews.NewsItems
	if news == nil {
		news = []domain.NewsItem{}
	}
	return &domain.NewsResponse{AppID: appID, News: news}, nil
}

// Stats returns global achievement unlock rates joined with schema metadata.
// A schema failure degrades the response to achievement names only.
func (s *GameService) Stats(ctx context.Context, appID int) (*domain.StatsResponse, error) {
	percentages, err := s.client.GetAchievementPercentages(ctx, appID)
	if err != nil {
		return nil, err
	}

	schema, err := s.client.GetAchievementSchema(ctx, appID)
	if err != nil {
		slog.Warn("achievement schema unavailable", "app_id", appID, "error", err)
		schema = nil
	}

	return &domain.StatsResponse{
		Achievements: steam.MergeAchievements(percentages, schema),
	}, nil
}
