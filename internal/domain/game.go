package domain

// CatalogEntry is one app from the Steam catalog listing
type CatalogEntry struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// GameSummary is a catalog entry enriched with its store header image
type GameSummary struct {
	CatalogEntry
	HeaderImage string `json:"header_image"`
}

// SearchResult is the response of a game search
type SearchResult struct {
	Games []GameSummary `json:"games"`
	Total int           `json:"total"`
}

// MinimalDetails is the subset of store metadata needed to list a game in search results
type MinimalDetails struct {
	HeaderImage string `json:"header_image"`
}

// GameDetails represents the store page of a single game
type GameDetails struct {
	AppID               int              `json:"app_id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
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
	PCRequirements      GameRequirements `json:"pc_requirements"`

	// Requirement HTML as served by the store, kept for the requirements endpoint
	RawPCRequirements RawRequirements `json:"-"`
}

// GameRequirementsResponse carries parsed and raw requirement blocks for one game
type GameRequirementsResponse struct {
	AppID       int              `json:"app_id"`
	Parsed      GameRequirements `json:"parsed"`
	Minimum     string           `json:"minimum"`
	Recommended string           `json:"recommended"`
}

// ReviewQuery holds the pass-through parameters of the Steam reviews endpoint
type ReviewQuery struct {
	Filter     string
	Language   string
	ReviewType string
	NumPerPage int
	Cursor     string
}

// ReviewsPage is one page of user reviews
type ReviewsPage struct {
	QuerySummary QuerySummary `json:"query_summary"`
	Reviews      []Review     `json:"reviews"`
	Cursor       string       `json:"cursor"`
}

// NewsResponse lists news items for one app
type NewsResponse struct {
	AppID int        `json:"app_id"`
	News  []NewsItem `json:"news"`
}

// Achievement is a global unlock percentage joined with its schema metadata
type Achievement struct {
	Name        string  `json:"name"`
	Percent     float64 `json:"percent"`
	DisplayName string  `json:"displayName"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	IconGray    string  `json:"iconGray"`
}

// StatsResponse wraps the achievements of one app
type StatsResponse struct {
	Achievements []Achievement `json:"achievements"`
}
