package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// AppListResponse is the body of ISteamApps/GetAppList
type AppListResponse struct {
	AppList struct {
		Apps []CatalogEntry `json:"apps"`
	} `json:"applist"`
}

// AppDetailsEnvelope is one entry of the store appdetails response, keyed by app id upstream
type AppDetailsEnvelope struct {
	Success bool          `json:"success"`
	Data    *StoreAppData `json:"data"`
}

// StoreAppData is the "data" object of the store appdetails response
type StoreAppData struct {
	Type                string           `json:"type"`
	Name                string           `json:"name"`
	SteamAppID          int              `json:"steam_appid"`
	ShortDescription    string           `json:"short_description"`
	DetailedDescription string           `json:"detailed_description"`
	HeaderImage         string           `json:"header_image"`
	Website             string           `json:"website"`
	Developers          []string         `json:"developers"`
	Publishers          []string         `json:"publishers"`
	ReleaseDate         ReleaseDate      `json:"release_date"`
	Genres              []Genre          `json:"genres"`
	Categories          []Category       `json:"categories"`
	Screenshots         []Screenshot     `json:"screenshots"`
	Movies              []Movie          `json:"movies"`
	PriceOverview       *PriceOverview   `json:"price_overview"`
	Platforms           *Platforms       `json:"platforms"`
	Metacritic          *Metacritic      `json:"metacritic"`
	Recommendations     *Recommendations `json:"recommendations"`
	PCRequirements      RawRequirements  `json:"pc_requirements"`
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

type Genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type Category struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type Screenshot struct {
	ID            int    `json:"id"`
	PathThumbnail string `json:"path_thumbnail"`
	PathFull      string `json:"path_full"`
}

// Movie is passed through as-is; its media maps vary between apps
type Movie = json.RawMessage

type PriceOverview struct {
	Currency         string `json:"currency"`
	Initial          int    `json:"initial"`
	Final            int    `json:"final"`
	DiscountPercent  int    `json:"discount_percent"`
	InitialFormatted string `json:"initial_formatted"`
	FinalFormatted   string `json:"final_formatted"`
}

type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

type Metacritic struct {
	Score int    `json:"score"`
	URL   string `json:"url"`
}

type Recommendations struct {
	Total int `json:"total"`
}

// RawRequirements holds the HTML requirement blocks of one platform.
// The store sends an empty array instead of an object when there are none.
type RawRequirements struct {
	Minimum     string `json:"minimum"`
	Recommended string `json:"recommended"`
}

func (r *RawRequirements) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*r = RawRequirements{}
		return nil
	}
	type plain RawRequirements
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*r = RawRequirements(p)
	return nil
}

// ReviewsResponse is the body of the store appreviews endpoint
type ReviewsResponse struct {
	Success      int          `json:"success"`
	QuerySummary QuerySummary `json:"query_summary"`
	Reviews      []Review     `json:"reviews"`
	Cursor       string       `json:"cursor"`
}

type QuerySummary struct {
	NumReviews      int    `json:"num_reviews"`
	ReviewScore     int    `json:"review_score"`
	ReviewScoreDesc string `json:"review_score_desc"`
	TotalPositive   int    `json:"total_positive"`
	TotalNegative   int    `json:"total_negative"`
	TotalReviews    int    `json:"total_reviews"`
}

type Review struct {
	RecommendationID         string       `json:"recommendationid"`
	Author                   ReviewAuthor `json:"author"`
	Language                 string       `json:"language"`
	Review                   string       `json:"review"`
	TimestampCreated         int64        `json:"timestamp_created"`
	TimestampUpdated         int64        `json:"timestamp_updated"`
	VotedUp                  bool         `json:"voted_up"`
	VotesUp                  int          `json:"votes_up"`
	VotesFunny               int          `json:"votes_funny"`
	WeightedVoteScore        FlexFloat    `json:"weighted_vote_score"`
	CommentCount             int          `json:"comment_count"`
	SteamPurchase            bool         `json:"steam_purchase"`
	ReceivedForFree          bool         `json:"received_for_free"`
	WrittenDuringEarlyAccess bool         `json:"written_during_early_access"`
}

type ReviewAuthor struct {
	SteamID              string `json:"steamid"`
	NumGamesOwned        int    `json:"num_games_owned"`
	NumReviews           int    `json:"num_reviews"`
	PlaytimeForever      int    `json:"playtime_forever"`
	PlaytimeLastTwoWeeks int    `json:"playtime_last_two_weeks"`
	PlaytimeAtReview     int    `json:"playtime_at_review"`
	LastPlayed           int64  `json:"last_played"`
}

// NewsForAppResponse is the body of ISteamNews/GetNewsForApp
type NewsForAppResponse struct {
	AppNews struct {
		AppID     int        `json:"appid"`
		NewsItems []NewsItem `json:"newsitems"`
	} `json:"appnews"`
}

type NewsItem struct {
	GID           string `json:"gid"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	IsExternalURL bool   `json:"is_external_url"`
	Author        string `json:"author"`
	Contents      string `json:"contents"`
	FeedLabel     string `json:"feedlabel"`
	Date          int64  `json:"date"`
	FeedName      string `json:"feedname"`
}

// AchievementPercentagesResponse is the body of GetGlobalAchievementPercentagesForApp
type AchievementPercentagesResponse struct {
	AchievementPercentages struct {
		Achievements []AchievementPercentage `json:"achievements"`
	} `json:"achievementpercentages"`
}

type AchievementPercentage struct {
	Name    string    `json:"name"`
	Percent FlexFloat `json:"percent"`
}

// GameSchemaResponse is the body of GetSchemaForGame
type GameSchemaResponse struct {
	Game struct {
		GameName           string `json:"gameName"`
		AvailableGameStats struct {
			Achievements []AchievementSchema `json:"achievements"`
		} `json:"availableGameStats"`
	} `json:"game"`
}

type AchievementSchema struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconGray    string `json:"icongray"`
}

// FlexFloat decodes a JSON number or a numeric string. Steam uses both.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}
