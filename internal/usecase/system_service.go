package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/steamexplorer/backend/internal/domain"
)

// SystemService reports the host machine and checks it against game requirements
type SystemService struct {
	inspector domain.HostInspector
}

// NewSystemService creates a new system service
func NewSystemService(inspector domain.HostInspector) *SystemService {
	return &SystemService{inspector: inspector}
}

// Specs returns a full snapshot of the host. Probe failures are reported per component.
func (s *SystemService) Specs(ctx context.Context) domain.HostSpec {
	return s.inspector.Inspect(ctx)
}

// Test returns one line per host component
func (s *SystemService) Test(ctx context.Context) domain.HostSummary {
	return s.inspector.Summary(ctx)
}

// Compare scores the host against the requested tier of tiers. An empty tier means minimum.
func (s *SystemService) Compare(ctx context.Context, tiers map[string]domain.RequirementFields, tier string) (*domain.CompareResponse, error) {
	if tier == "" {
		tier = domain.TierMinimum
	}
	if tier != domain.TierMinimum && tier != domain.TierRecommended {
		return nil, fmt.Errorf("%w: unknown requirement type %q", domain.ErrInvalidArgument, tier)
	}

	reqs, ok := tiers[tier]
	if !ok || reqs.IsEmpty() {
		return nil, fmt.Errorf("%w: %s requirements not available", domain.ErrInvalidArgument, tier)
	}

	host := s.inspector.Inspect(ctx)

	return &domain.CompareResponse{
		UserSpecs:        host,
		GameRequirements: tiers,
		Comparison:       Compare(host, reqs),
		Status:           "success",
	}, nil
}

// ResolveTiers decodes the game_requirements body of a compare request.
// Each tier is either a structured object or a raw HTML block, which is parsed.
func ResolveTiers(raw map[string]json.RawMessage) (map[string]domain.RequirementFields, error) {
	tiers := make(map[string]domain.RequirementFields, len(raw))

	for name, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}

		switch value[0] {
		case '"':
			var html string
			if err := json.Unmarshal(value, &html); err != nil {
				return nil, fmt.Errorf("%w: %s requirements: %v", domain.ErrInvalidArgument, name, err)
			}
			tiers[name] = ParseRequirements(html)
		case '{':
			var fields domain.RequirementFields
			if err := json.Unmarshal(value, &fields); err != nil {
				return nil, fmt.Errorf("%w: %s requirements: %v", domain.ErrInvalidArgument, name, err)
			}
			tiers[name] = fields
		default:
			return nil, fmt.Errorf("%w: %s requirements must be an object or a string", domain.ErrInvalidArgument, name)
		}
	}

	return tiers, nil
}
