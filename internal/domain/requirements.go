package domain

// Unspecified is the placeholder for a requirement field that could not be extracted
const Unspecified = "unspecified"

// Requirement tiers
const (
	TierMinimum     = "minimum"
	TierRecommended = "recommended"
)

// RequirementFields are the structured fields extracted from one requirement block
type RequirementFields struct {
	Processor string `json:"processor"`
	Memory    string `json:"memory"`
	Graphics  string `json:"graphics"`
	OS        string `json:"os"`
	Storage   string `json:"storage"`
}

// UnspecifiedRequirements returns fields all set to the Unspecified sentinel
func UnspecifiedRequirements() RequirementFields {
	return RequirementFields{
		Processor: Unspecified,
		Memory:    Unspecified,
		Graphics:  Unspecified,
		OS:        Unspecified,
		Storage:   Unspecified,
	}
}

// IsEmpty reports whether none of the comparable fields carry a value
func (r RequirementFields) IsEmpty() bool {
	return r.OS == "" && r.Memory == "" && r.Processor == "" && r.Graphics == "" && r.Storage == ""
}

// GameRequirements groups the parsed minimum and recommended blocks
type GameRequirements struct {
	Minimum     RequirementFields `json:"minimum"`
	Recommended RequirementFields `json:"recommended"`
}
