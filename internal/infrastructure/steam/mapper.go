package steam

import (
	"github.com/steamexplorer/backend/internal/domain"
)

// RequirementsParser turns one HTML requirement block into structured fields
type RequirementsParser func(html string) domain.RequirementFields

// MapToGameDetails converts store data to our domain GameDetails.
// Nil slices become empty so the response never carries nulls for lists.
func MapToGameDetails(appID int, data *domain.StoreAppData, parse RequirementsParser) *domain.GameDetails {
	details := &domain.GameDetails{
		AppID:               appID,
		Name:                data.Name,
		Description:         data.ShortDescription,
		DetailedDescription: data.DetailedDescription,
		HeaderImage:         data.HeaderImage,
		Website:             data.Website,
		Developers:          nonNil(data.Developers),
		Publishers:          nonNil(data.Publishers),
		ReleaseDate:         data.ReleaseDate,
		Genres:              nonNil(data.Genres),
		Categories:          nonNil(data.Categories),
		Screenshots:         nonNil(data.Screenshots),
		Movies:              nonNil(data.Movies),
		PriceOverview:       data.PriceOverview,
		Platforms:           data.Platforms,
		Metacritic:          data.Metacritic,
		Recommendations:     data.Recommendations,
		RawPCRequirements:   data.PCRequirements,
	}

	if parse != nil {
		details.PCRequirements = domain.GameRequirements{
			Minimum:     parse(data.PCRequirements.Minimum),
			Recommended: parse(data.PCRequirements.Recommended),
		}
	}

	return details
}

// MapToReviewsPage strips the upstream success flag from a reviews response
func MapToReviewsPage(resp *domain.ReviewsResponse) *domain.ReviewsPage {
	return &domain.ReviewsPage{
		QuerySummary: resp.QuerySummary,
		Reviews:      nonNil(resp.Reviews),
		Cursor:       resp.Cursor,
	}
}

// MergeAchievements joins global unlock rates with schema metadata.
// Achievements absent from the schema fall back to their API name.
func MergeAchievements(percentages *domain.AchievementPercentagesResponse, schema *domain.GameSchemaResponse) []domain.Achievement {
	byName := make(map[string]domain.AchievementSchema)
	if schema != nil {
		for _, s := range schema.Game.AvailableGameStats.Achievements {
			byName[s.Name] = s
		}
	}

	var source []domain.AchievementPercentage
	if percentages != nil {
		source = percentages.AchievementPercentages.Achievements
	}

	achievements := make([]domain.Achievement, 0, len(source))
	for _, p := range source {
		a := domain.Achievement{
			Name:        p.Name,
			Percent:     float64(p.Percent),
			DisplayName: p.Name,
		}
		if s, ok := byName[p.Name]; ok {
			if s.DisplayName != "" {
				a.DisplayName = s.DisplayName
			}
			a.Description = s.Description
			a.Icon = s.Icon
			a.IconGray = s.IconGray
		}
		achievements = append(achievements, a)
	}
	return achievements
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
