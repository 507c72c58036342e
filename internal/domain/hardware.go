package domain

// HostSpec is a snapshot of the local machine. Each component carries its own
// Error so that one failed probe does not hide the others.
type HostSpec struct {
	OS  OSInfo  `json:"os"`
	CPU CPUInfo `json:"cpu"`
	RAM RAMInfo `json:"ram"`
	GPU GPUInfo `json:"gpu"`
}

type OSInfo struct {
	System   string `json:"system,omitempty"`
	Release  string `json:"release,omitempty"`
	Version  string `json:"version,omitempty"`
	Machine  string `json:"machine,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Error    string `json:"error,omitempty"`
}

type CPUInfo struct {
	Brand         string       `json:"brand,omitempty"`
	CoresPhysical int          `json:"cores_physical,omitempty"`
	CoresLogical  int          `json:"cores_logical,omitempty"`
	Frequency     CPUFrequency `json:"frequency"`
	UsagePercent  float64      `json:"usage_percent"`
	Architecture  string       `json:"architecture,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// CPUFrequency values are in MHz; zero means not reported
type CPUFrequency struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

type RAMInfo struct {
	Total       string `json:"total,omitempty"`
	Available   string `json:"available,omitempty"`
	Used        string `json:"used,omitempty"`
	PercentUsed string `json:"percent_used,omitempty"`
	Raw         RAMRaw `json:"raw"`
	Error       string `json:"error,omitempty"`
}

type RAMRaw struct {
	Total     uint64  `json:"total"`
	Available uint64  `json:"available"`
	Used      uint64  `json:"used"`
	Percent   float64 `json:"percent"`
	TotalGB   float64 `json:"total_gb"`
}

type GPUInfo struct {
	Name   string `json:"name,omitempty"`
	Vendor string `json:"vendor,omitempty"`
	Driver string `json:"driver,omitempty"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HostSummary is the one-line-per-component view served by the test endpoint
type HostSummary struct {
	OS  string `json:"os"`
	CPU string `json:"cpu"`
	RAM string `json:"ram"`
	GPU string `json:"gpu"`
}
