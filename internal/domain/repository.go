package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for keyed caching operations
type CacheRepository[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogSource provides the full app catalog
type CatalogSource interface {
	GetCatalog(ctx context.Context) ([]CatalogEntry, error)
}

// SteamClient defines the interface for the Steam Web and Store APIs
type SteamClient interface {
	GetAppList(ctx context.Context) ([]CatalogEntry, error)
	GetAppDetails(ctx context.Context, appID int) (*StoreAppData, error)
	GetReviews(ctx context.Context, appID int, query ReviewQuery) (*ReviewsResponse, error)
	GetNews(ctx context.Context, appID int, count int) (*NewsForAppResponse, error)
	GetAchievementPercentages(ctx context.Context, appID int) (*AchievementPercentagesResponse, error)
	GetAchievementSchema(ctx context.Context, appID int) (*GameSchemaResponse, error)
}

// HostInspector reads the hardware and OS of the machine running the server
type HostInspector interface {
	Inspect(ctx context.Context) HostSpec
	Summary(ctx context.Context) HostSummary
}

// UserRepository defines the interface for account persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}
