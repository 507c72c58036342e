package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/steamexplorer/backend/internal/domain"
)

const storeTypeGame = "game"

// DetailFetcher retrieves the minimal store metadata needed to list a game
type DetailFetcher struct {
	client  domain.SteamClient
	timeout time.Duration
}

// NewDetailFetcher creates a fetcher whose lookups are bounded by timeout.
// A zero timeout leaves the caller's context as the only bound.
func NewDetailFetcher(client domain.SteamClient, timeout time.Duration) *DetailFetcher {
	return &DetailFetcher{client: client, timeout: timeout}
}

// FetchMinimal performs a single app-details request.
// Network and protocol failures are ErrUpstream. Absent apps, non-games and
// entries without a header image are ErrNotFound.
func (f *DetailFetcher) FetchMinimal(ctx context.Context, appID int) (*domain.MinimalDetails, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	data, err := f.client.GetAppDetails(ctx, appID)
	if err != nil {
		return nil, err
	}

	if data.Type != storeTypeGame {
		return nil, fmt.Errorf("%w: app %d is a %q", domain.ErrNotFound, appID, data.Type)
	}
	if data.HeaderImage == "" {
		return nil, fmt.Errorf("%w: app %d has no header image", domain.ErrNotFound, appID)
	}

	return &domain.MinimalDetails{HeaderImage: data.HeaderImage}, nil
}
