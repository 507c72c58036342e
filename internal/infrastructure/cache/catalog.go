package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/steamexplorer/backend/internal/domain"
	"github.com/steamexplorer/backend/internal/metrics"
)

const (
	// DefaultCatalogTTL is how long a fetched catalog stays valid
	DefaultCatalogTTL = time.Hour

	// DefaultFetchTimeout bounds one shared catalog refresh
	DefaultFetchTimeout = 30 * time.Second
)

// AppListFetcher fetches the full app catalog from upstream
type AppListFetcher interface {
	GetAppList(ctx context.Context) ([]domain.CatalogEntry, error)
}

// catalogSnapshot pairs the entries with their fetch time so both are swapped together
type catalogSnapshot struct {
	entries   []domain.CatalogEntry
	fetchedAt time.Time
}

// CatalogCache holds one catalog snapshot and refreshes it from upstream once it expires.
// Returned slices are shared between callers and must be treated as read-only.
type CatalogCache struct {
	fetcher      AppListFetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	slot         atomic.Pointer[catalogSnapshot]
	group        singleflight.Group
}

// CatalogOption configures a CatalogCache
type CatalogOption func(*CatalogCache)

// WithClock overrides the time source
func WithClock(now func() time.Time) CatalogOption {
	return func(c *CatalogCache) { c.now = now }
}

// WithFetchTimeout bounds the shared refresh, which no single caller can cancel
func WithFetchTimeout(d time.Duration) CatalogOption {
	return func(c *CatalogCache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// NewCatalogCache creates an empty catalog cache
func NewCatalogCache(fetcher AppListFetcher, ttl time.Duration, opts ...CatalogOption) *CatalogCache {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	c := &CatalogCache{
		fetcher:      fetcher,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetCatalog returns the cached catalog, refreshing it first if it is absent or expired
func (c *CatalogCache) GetCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	if snap := c.valid(); snap != nil {
		metrics.CatalogLookups.WithLabelValues("hit").Inc()
		return snap.entries, nil
	}

	// The refresh is detached from the caller that started it; each caller
	// stops waiting on its own ctx.
	ch := c.group.DoChan("catalog", func() (interface{}, error) {
		// Another caller may have refreshed while we waited
		if snap := c.valid(); snap != nil {
			return snap.entries, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		entries, err := c.fetcher.GetAppList(fetchCtx)
		if err != nil {
			return nil, err
		}

		c.slot.Store(&catalogSnapshot{entries: entries, fetchedAt: c.now()})
		metrics.CatalogLookups.WithLabelValues("refresh").Inc()
		slog.Info("catalog refreshed", "apps", len(entries))
		return entries, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("catalog fetch: %w", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		metrics.CatalogLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: catalog fetch: %v", domain.ErrUpstream, res.Err)
	}

	return res.Val.([]domain.CatalogEntry), nil
}

// FetchedAt reports when the current snapshot was fetched, or the zero time if empty
func (c *CatalogCache) FetchedAt() time.Time {
	if snap := c.slot.Load(); snap != nil {
		return snap.fetchedAt
	}
	return time.Time{}
}

// Invalidate drops the current snapshot
func (c *CatalogCache) Invalidate() {
	c.slot.Store(nil)
}

func (c *CatalogCache) valid() *catalogSnapshot {
	snap := c.slot.Load()
	if snap == nil || c.now().Sub(snap.fetchedAt) >= c.ttl {
		return nil
	}
	return snap
}
