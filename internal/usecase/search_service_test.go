package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamexplorer/backend/internal/domain"
)

func defaultSearchConfig() SearchConfig {
	return SearchConfig{MatchLimit: 50, DetailCandidates: 20, Workers: 10, ResultLimit: 20}
}

// catalogOf builds n entries named "<prefix> <i>" with app ids starting at 1
func catalogOf(prefix string, n int) ([]domain.CatalogEntry, map[int]*domain.StoreAppData) {
	entries := make([]domain.CatalogEntry, 0, n)
	apps := make(map[int]*domain.StoreAppData, n)
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("%s %d", prefix, i)
		entries = append(entries, domain.CatalogEntry{AppID: i, Name: name})
		apps[i] = gameData(i, name)
	}
	return entries, apps
}

func newSearch(catalog *MockCatalog, client *MockSteamClient, cfg SearchConfig) *SearchService {
	return NewSearchService(catalog, NewDetailFetcher(client, time.Second), cfg)
}

func TestSearch_ReturnsExactlyResultLimit(t *testing.T) {
	entries, apps := catalogOf("Portal", 60)
	client := &MockSteamClient{apps: apps}
	svc := newSearch(&MockCatalog{entries: entries}, client, defaultSearchConfig())

	result, err := svc.Search(context.Background(), "portal")
	require.NoError(t, err)

	assert.Len(t, result.Games, 20)
	assert.Equal(t, 20, result.Total)
	for _, g := range result.Games {
		assert.NotEmpty(t, g.HeaderImage)
	}
	assert.LessOrEqual(t, int(client.detailCalls.Load()), 20)
}

func TestSearch_FewerFetchableThanLimit(t *testing.T) {
	entries, apps := catalogOf("Half-Life", 30)
	for id, app := range apps {
		if id > 7 {
			app.Type = "dlc"
		}
	}
	svc := newSearch(&MockCatalog{entries: entries}, &MockSteamClient{apps: apps}, defaultSearchConfig())

	result, err := svc.Search(context.Background(), "half-life")
	require.NoError(t, err)

	assert.Len(t, result.Games, 7)
	assert.Equal(t, 7, result.Total)
	for _, g := range result.Games {
		assert.LessOrEqual(t, g.AppID, 7)
	}
}

func TestSearch_OnlyFirstCandidatesLookedUp(t *testing.T) {
	entries, apps := catalogOf("Doom", 100)
	client := &MockSteamClient{apps: apps}
	svc := newSearch(&MockCatalog{entries: entries}, client, defaultSearchConfig())

	result, err := svc.Search(context.Background(), "DOOM")
	require.NoError(t, err)

	assert.Equal(t, int32(20), client.detailCalls.Load())
	for _, g := range result.Games {
		assert.LessOrEqual(t, g.AppID, 20, "candidates come from catalog order")
	}
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	entries := []domain.CatalogEntry{
		{AppID: 1, Name: "PORTAL 2"},
		{AppID: 2, Name: "Counter-Strike"},
		{AppID: 3, Name: "Portal Stories: Mel"},
	}
	apps := map[int]*domain.StoreAppData{
		1: gameData(1, "PORTAL 2"),
		2: gameData(2, "Counter-Strike"),
		3: gameData(3, "Portal Stories: Mel"),
	}
	svc := newSearch(&MockCatalog{entries: entries}, &MockSteamClient{apps: apps}, defaultSearchConfig())

	result, err := svc.Search(context.Background(), "  portal ")
	require.NoError(t, err)

	ids := make([]int, 0, len(result.Games))
	for _, g := range result.Games {
		ids = append(ids, g.AppID)
	}
	assert.ElementsMatch(t, []int{1, 3}, ids)
}

func TestSearch_DropsFailedLookups(t *testing.T) {
	entries, apps := catalogOf("Quake", 4)
	apps[2].HeaderImage = ""
	delete(apps, 3)
	client := &MockSteamClient{
		detailsFn: func(ctx context.Context, appID int) (*domain.StoreAppData, error) {
			if appID == 4 {
				return nil, fmt.Errorf("%w: connection reset", domain.ErrUpstream)
			}
			if data, ok := apps[appID]; ok {
				return data, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	svc := newSearch(&MockCatalog{entries: entries}, client, defaultSearchConfig())

	result, err := svc.Search(context.Background(), "quake")
	require.NoError(t, err)

	require.Len(t, result.Games, 1)
	assert.Equal(t, 1, result.Games[0].AppID)
	assert.Equal(t, 1, result.Total)
}

func TestSearch_StopsWithoutWaitingForSlowLookups(t *testing.T) {
	entries, apps := catalogOf("Zelda", 20)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	client := &MockSteamClient{
		detailsFn: func(ctx context.Context, appID int) (*domain.StoreAppData, error) {
			if appID > 5 {
				<-release
			}
			return apps[appID], nil
		},
	}
	// One slot per lookup so the blocked ones cannot starve the fast ones
	cfg := SearchConfig{MatchLimit: 50, DetailCandidates: 20, Workers: 20, ResultLimit: 5}
	svc := NewSearchService(&MockCatalog{entries: entries}, NewDetailFetcher(client, 0), cfg)

	done := make(chan *domain.SearchResult, 1)
	go func() {
		result, err := svc.Search(context.Background(), "zelda")
		if err == nil {
			done <- result
		}
	}()

	select {
	case result := <-done:
		assert.Equal(t, 5, result.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("search blocked on in-flight lookups")
	}
}

func TestSearch_RespectsWorkerCap(t *testing.T) {
	entries, apps := catalogOf("Tomb Raider", 30)
	var inFlight, peak atomic.Int32

	client := &MockSteamClient{
		detailsFn: func(ctx context.Context, appID int) (*domain.StoreAppData, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			return apps[appID], nil
		},
	}
	cfg := defaultSearchConfig()
	svc := newSearch(&MockCatalog{entries: entries}, client, cfg)

	result, err := svc.Search(context.Background(), "tomb raider")
	require.NoError(t, err)

	assert.Equal(t, 20, result.Total)
	assert.Equal(t, int32(20), client.detailCalls.Load())
	assert.LessOrEqual(t, peak.Load(), int32(cfg.Workers))
	assert.Equal(t, int32(cfg.Workers), peak.Load())
}

func TestSearch_CancelledRequestFails(t *testing.T) {
	entries, _ := catalogOf("Hitman", 20)
	client := &MockSteamClient{
		detailsFn: func(ctx context.Context, appID int) (*domain.StoreAppData, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	svc := NewSearchService(&MockCatalog{entries: entries}, NewDetailFetcher(client, 0), defaultSearchConfig())

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	result, err := svc.Search(ctx, "hitman")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newSearch(&MockCatalog{}, &MockSteamClient{}, defaultSearchConfig())

	for _, q := range []string{"", "   "} {
		_, err := svc.Search(context.Background(), q)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "query %q", q)
	}
}

func TestSearch_CatalogFailure(t *testing.T) {
	catalog := &MockCatalog{err: fmt.Errorf("%w: catalog fetch: timeout", domain.ErrUpstream)}
	svc := newSearch(catalog, &MockSteamClient{}, defaultSearchConfig())

	_, err := svc.Search(context.Background(), "portal")
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestSearch_NoMatches(t *testing.T) {
	entries, apps := catalogOf("Portal", 5)
	svc := newSearch(&MockCatalog{entries: entries}, &MockSteamClient{apps: apps}, defaultSearchConfig())

	result, err := svc.Search(context.Background(), "tetris")
	require.NoError(t, err)

	assert.Empty(t, result.Games)
	assert.NotNil(t, result.Games)
	assert.Equal(t, 0, result.Total)
}

func TestNewSearchService_Defaults(t *testing.T) {
	svc := NewSearchService(&MockCatalog{}, nil, SearchConfig{})

	assert.Equal(t, defaultSearchConfig(), svc.cfg)
}

func TestFilterByName_StopsAtLimit(t *testing.T) {
	entries, _ := catalogOf("Tomb Raider", 80)

	matches := filterByName(entries, "tomb", 50)

	require.Len(t, matches, 50)
	assert.Equal(t, 1, matches[0].AppID)
	assert.Equal(t, 50, matches[49].AppID)
}
