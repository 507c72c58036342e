package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/steamexplorer/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository[V any] struct {
	data      map[string]V
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository[V any]() *MockCacheRepository[V] {
	return &MockCacheRepository[V]{
		data: make(map[string]V),
	}
}

func (m *MockCacheRepository[V]) Get(ctx context.Context, key string) (V, error) {
	m.getCalled = true
	var zero V
	if m.getError != nil {
		return zero, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return zero, domain.ErrCacheMiss
}

func (m *MockCacheRepository[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository[V]) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository[V]) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockCatalog is a mock implementation of domain.CatalogSource
type MockCatalog struct {
	entries []domain.CatalogEntry
	err     error
}

func (m *MockCatalog) GetCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	return m.entries, m.err
}

// MockSteamClient is a mock implementation of domain.SteamClient
type MockSteamClient struct {
	mu sync.Mutex

	apps       map[int]*domain.StoreAppData
	detailsErr error
	detailsFn  func(ctx context.Context, appID int) (*domain.StoreAppData, error)

	reviews    *domain.ReviewsResponse
	reviewsErr error
	lastQuery  domain.ReviewQuery

	news      *domain.NewsForAppResponse
	newsErr   error
	lastCount int

	percentages    *domain.AchievementPercentagesResponse
	percentagesErr error
	schema         *domain.GameSchemaResponse
	schemaErr      error

	detailCalls atomic.Int32
}

func (m *MockSteamClient) GetAppList(ctx context.Context) ([]domain.CatalogEntry, error) {
	return nil, nil
}

func (m *MockSteamClient) GetAppDetails(ctx context.Context, appID int) (*domain.StoreAppData, error) {
	m.detailCalls.Add(1)
	if m.detailsFn != nil {
		return m.detailsFn(ctx, appID)
	}
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if data, ok := m.apps[appID]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockSteamClient) GetReviews(ctx context.Context, appID int, query domain.ReviewQuery) (*domain.ReviewsResponse, error) {
	m.lastQuery = query
	return m.reviews, m.reviewsErr
}

func (m *MockSteamClient) GetNews(ctx context.Context, appID int, count int) (*domain.NewsForAppResponse, error) {
	m.lastCount = count
	return m.news, m.newsErr
}

func (m *MockSteamClient) GetAchievementPercentages(ctx context.Context, appID int) (*domain.AchievementPercentagesResponse, error) {
	return m.percentages, m.percentagesErr
}

func (m *MockSteamClient) GetAchievementSchema(ctx context.Context, appID int) (*domain.GameSchemaResponse, error) {
	return m.schema, m.schemaErr
}

// MockHostInspector is a mock implementation of domain.HostInspector
type MockHostInspector struct {
	spec    domain.HostSpec
	summary domain.HostSummary
}

func (m *MockHostInspector) Inspect(ctx context.Context) domain.HostSpec {
	return m.spec
}

func (m *MockHostInspector) Summary(ctx context.Context) domain.HostSummary {
	return m.summary
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	users     []*domain.User
	createErr error
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = uint(len(m.users) + 1)
	user.CreatedAt = time.Now()
	m.users = append(m.users, user)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// gameData returns a store entry that passes the minimal-details checks
func gameData(appID int, name string) *domain.StoreAppData {
	return &domain.StoreAppData{
		Type:        "game",
		Name:        name,
		SteamAppID:  appID,
		HeaderImage: "https://cdn.example.com/" + name + ".jpg",
	}
}
