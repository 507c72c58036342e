package domain

// Confidence grades how much a verdict can be trusted
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ComparisonVerdict is the outcome of comparing one host component to one requirement field
type ComparisonVerdict struct {
	Compatible    bool       `json:"compatible"`
	Reason        string     `json:"reason"`
	Confidence    Confidence `json:"confidence"`
	UserValue     string     `json:"user_value,omitempty"`
	RequiredValue string     `json:"required_value,omitempty"`
}

// ComparisonResult aggregates the per-field verdicts.
// OverallCompatible is false only when the os or ram verdict is incompatible.
type ComparisonResult struct {
	OverallCompatible       bool                         `json:"overall_compatible"`
	Details                 map[string]ComparisonVerdict `json:"details"`
	Score                   int                          `json:"score"`
	TotalChecks             int                          `json:"total_checks"`
	CompatibilityPercentage float64                      `json:"compatibility_percentage"`
}

// CompareResponse is returned by the compare endpoint
type CompareResponse struct {
	UserSpecs        HostSpec                     `json:"user_specs"`
	GameRequirements map[string]RequirementFields `json:"game_requirements"`
	Comparison       ComparisonResult             `json:"comparison"`
	Status           string                       `json:"status"`
}
