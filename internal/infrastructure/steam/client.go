package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/steamexplorer/backend/internal/domain"
	"github.com/steamexplorer/backend/internal/metrics"
)

const (
	DefaultAPIBaseURL   = "https://api.steampowered.com"
	DefaultStoreBaseURL = "https://store.steampowered.com"

	newsMaxLength = 300
	userAgent     = "SteamExplorer/1.0"
)

// ClientConfig holds Steam client settings
type ClientConfig struct {
	APIKey       string
	APIBaseURL   string
	StoreBaseURL string
	Timeout      time.Duration
	RateLimit    float64 // requests per second, 0 disables limiting
	RateBurst    int
	MaxRetries   int
}

// Client handles communication with the Steam Web API and the Store API
type Client struct {
	httpClient   *http.Client
	apiKey       string
	apiBaseURL   string
	storeBaseURL string
	rateLimiter  *rate.Limiter
	maxRetries   int
	debug        bool
}

// NewClient creates a new Steam API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.StoreBaseURL == "" {
		cfg.StoreBaseURL = DefaultStoreBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:       cfg.APIKey,
		apiBaseURL:   cfg.APIBaseURL,
		storeBaseURL: cfg.StoreBaseURL,
		rateLimiter:  rate.NewLimiter(limit, burst),
		maxRetries:   cfg.MaxRetries,
	}
}

// SetDebug enables logging of upstream response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retry number attempt (1-based)
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the request URL, which may carry the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return resp, nil
}

// getJSON fetches reqURL and decodes the body into out.
// Transport errors, 429 and 5xx are retried; 404 maps to ErrNotFound.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, out interface{}) error {
	start := time.Now()
	defer metrics.ObserveSince(metrics.UpstreamDuration.WithLabelValues(endpoint), start)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			metrics.UpstreamRequests.WithLabelValues(endpoint, "retry").Inc()
			if err := sleepContext(ctx, exponentialBackoff(attempt-1)); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", domain.ErrUpstream, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			slog.Warn("steam request failed", "endpoint", endpoint, "attempt", attempt, "error", err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrUpstream, err)
			continue
		}

		if c.debug {
			slog.Debug("steam response", "endpoint", endpoint, "status", resp.StatusCode, "body", truncate(string(body), 512))
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			metrics.UpstreamRequests.WithLabelValues(endpoint, "not_found").Inc()
			return domain.ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			slog.Warn("steam API error", "endpoint", endpoint, "attempt", attempt, "status", resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
		}

		if err := json.Unmarshal(body, out); err != nil {
			metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstream, err)
		}

		metrics.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()
		return nil
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
	slog.Error("steam request exhausted retries", "endpoint", endpoint, "error", lastErr)
	return lastErr
}

// GetAppList retrieves the full app catalog
func (c *Client) GetAppList(ctx context.Context) ([]domain.CatalogEntry, error) {
	reqURL := fmt.Sprintf("%s/ISteamApps/GetAppList/v2/", c.apiBaseURL)

	var resp domain.AppListResponse
	if err := c.getJSON(ctx, "applist", reqURL, &resp); err != nil {
		return nil, err
	}
	return resp.AppList.Apps, nil
}

// GetAppDetails retrieves the store data of one app.
// An app missing from the response or flagged unsuccessful is ErrNotFound.
func (c *Client) GetAppDetails(ctx context.Context, appID int) (*domain.StoreAppData, error) {
	key := strconv.Itoa(appID)
	params := url.Values{}
	params.Add("appids", key)
	reqURL := fmt.Sprintf("%s/api/appdetails?%s", c.storeBaseURL, params.Encode())

	var resp map[string]domain.AppDetailsEnvelope
	if err := c.getJSON(ctx, "appdetails", reqURL, &resp); err != nil {
		return nil, err
	}

	envelope, ok := resp[key]
	if !ok || !envelope.Success || envelope.Data == nil {
		return nil, fmt.Errorf("%w: app %d", domain.ErrNotFound, appID)
	}
	return envelope.Data, nil
}

// GetReviews retrieves one page of user reviews
func (c *Client) GetReviews(ctx context.Context, appID int, query domain.ReviewQuery) (*domain.ReviewsResponse, error) {
	params := url.Values{}
	params.Add("json", "1")
	params.Add("filter", query.Filter)
	params.Add("language", query.Language)
	params.Add("review_type", query.ReviewType)
	params.Add("num_per_page", strconv.Itoa(query.NumPerPage))
	params.Add("cursor", query.Cursor)
	reqURL := fmt.Sprintf("%s/appreviews/%d?%s", c.storeBaseURL, appID, params.Encode())

	var resp domain.ReviewsResponse
	if err := c.getJSON(ctx, "appreviews", reqURL, &resp); err != nil {
		return nil, err
	}
	if resp.Success != 1 {
		return nil, fmt.Errorf("%w: reviews for app %d", domain.ErrNotFound, appID)
	}
	return &resp, nil
}

// GetNews retrieves the latest news items of one app
func (c *Client) GetNews(ctx context.Context, appID int, count int) (*domain.NewsForAppResponse, error) {
	params := url.Values{}
	params.Add("appid", strconv.Itoa(appID))
	params.Add("count", strconv.Itoa(count))
	params.Add("maxlength", strconv.Itoa(newsMaxLength))
	params.Add("format", "json")
	reqURL := fmt.Sprintf("%s/ISteamNews/GetNewsForApp/v2/?%s", c.apiBaseURL, params.Encode())

	var resp domain.NewsForAppResponse
	if err := c.getJSON(ctx, "news", reqURL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAchievementPercentages retrieves global achievement unlock rates
func (c *Client) GetAchievementPercentages(ctx context.Context, appID int) (*domain.AchievementPercentagesResponse, error) {
	params := url.Values{}
	params.Add("gameid", strconv.Itoa(appID))
	reqURL := fmt.Sprintf("%s/ISteamUserStats/GetGlobalAchievementPercentagesForApp/v2/?%s", c.apiBaseURL, params.Encode())

	var resp domain.AchievementPercentagesResponse
	if err := c.getJSON(ctx, "achievement_percentages", reqURL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAchievementSchema retrieves achievement display metadata. Requires the API key.
func (c *Client) GetAchievementSchema(ctx context.Context, appID int) (*domain.GameSchemaResponse, error) {
	params := url.Values{}
	params.Add("key", c.apiKey)
	params.Add("appid", strconv.Itoa(appID))
	reqURL := fmt.Sprintf("%s/ISteamUserStats/GetSchemaForGame/v2/?%s", c.apiBaseURL, params.Encode())

	var resp domain.GameSchemaResponse
	if err := c.getJSON(ctx, "achievement_schema", reqURL, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
