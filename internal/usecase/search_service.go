package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/steamexplorer/backend/internal/domain"
	"github.com/steamexplorer/backend/internal/metrics"
)

// MinimalFetcher looks up the listing metadata of one app
type MinimalFetcher interface {
	FetchMinimal(ctx context.Context, appID int) (*domain.MinimalDetails, error)
}

// SearchConfig bounds the search fan-out
type SearchConfig struct {
	MatchLimit       int
	DetailCandidates int
	Workers          int
	ResultLimit      int
}

// SearchService finds games by name and enriches them with store metadata
type SearchService struct {
	catalog domain.CatalogSource
	details MinimalFetcher
	cfg     SearchConfig
}

// NewSearchService creates a search service. Zero config values fall back to 50/20/10/20.
func NewSearchService(catalog domain.CatalogSource, details MinimalFetcher, cfg SearchConfig) *SearchService {
	if cfg.MatchLimit <= 0 {
		cfg.MatchLimit = 50
	}
	if cfg.DetailCandidates <= 0 {
		cfg.DetailCandidates = 20
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 10
	}
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = 20
	}

	return &SearchService{
		catalog: catalog,
		details: details,
		cfg:     cfg,
	}
}

// Search returns up to ResultLimit games whose name contains query.
// Results arrive in completion order; failed lookups are dropped.
func (s *SearchService) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	defer metrics.ObserveSince(metrics.SearchDuration, time.Now())

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidArgument)
	}

	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	matches := filterByName(catalog, query, s.cfg.MatchLimit)
	candidates := matches
	if len(candidates) > s.cfg.DetailCandidates {
		candidates = candidates[:s.cfg.DetailCandidates]
	}

	games, err := s.enrich(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	slog.Debug("search completed",
		"query", query,
		"matches", len(matches),
		"candidates", len(candidates),
		"results", len(games),
	)

	return &domain.SearchResult{Games: games, Total: len(games)}, nil
}

// filterByName keeps the first limit entries whose name contains query, case-insensitively
func filterByName(catalog []domain.CatalogEntry, query string, limit int) []domain.CatalogEntry {
	needle := strings.ToLower(query)
	matches := make([]domain.CatalogEntry, 0, limit)

	for _, entry := range catalog {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			matches = append(matches, entry)
			if len(matches) >= limit {
				break
			}
		}
	}

	return matches
}

// enrich fans detail lookups out over a bounded number of workers and returns
// once ResultLimit lookups succeeded or all of them finished. Lookups still in
// flight after that write into the buffered channel and exit.
// A cancelled ctx fails the whole enrichment rather than dropping lookups.
func (s *SearchService) enrich(ctx context.Context, candidates []domain.CatalogEntry) ([]domain.GameSummary, error) {
	type result struct {
		entry   domain.CatalogEntry
		details *domain.MinimalDetails
		err     error
	}

	results := make(chan result, len(candidates))
	sem := make(chan struct{}, s.cfg.Workers)

	for _, entry := range candidates {
		go func(entry domain.CatalogEntry) {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- result{entry: entry, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			details, err := s.details.FetchMinimal(ctx, entry.AppID)
			results <- result{entry: entry, details: details, err: err}
		}(entry)
	}

	games := make([]domain.GameSummary, 0, min(len(candidates), s.cfg.ResultLimit))
	for range candidates {
		var res result
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res = <-results:
		}

		if res.err != nil || res.details == nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			metrics.DetailLookups.WithLabelValues("dropped").Inc()
			slog.Debug("detail lookup dropped", "app_id", res.entry.AppID, "error", res.err)
			continue
		}

		metrics.DetailLookups.WithLabelValues("ok").Inc()
		games = append(games, domain.GameSummary{
			CatalogEntry: res.entry,
			HeaderImage:  res.details.HeaderImage,
		})
		if len(games) >= s.cfg.ResultLimit {
			break
		}
	}

	return games, nil
}
