package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/steamexplorer/backend/internal/domain"
)

const bytesPerGiB = 1024 * 1024 * 1024

var ramAmountRegex = regexp.MustCompile(`(\d+)\s*gb`)

// Compare scores the host against one requirement tier.
// Only non-empty requirement fields are checked. cpu and gpu never flip OverallCompatible.
func Compare(host domain.HostSpec, reqs domain.RequirementFields) domain.ComparisonResult {
	result := domain.ComparisonResult{
		OverallCompatible: true,
		Details:           make(map[string]domain.ComparisonVerdict),
	}

	record := func(field string, verdict domain.ComparisonVerdict, mandatory bool) {
		result.Details[field] = verdict
		result.TotalChecks++
		if verdict.Compatible {
			result.Score++
		} else if mandatory {
			result.OverallCompatible = false
		}
	}

	if reqs.OS != "" {
		record("os", compareOS(host.OS, reqs.OS), true)
	}
	if reqs.Memory != "" {
		record("ram", compareRAM(host.RAM, reqs.Memory), true)
	}
	if reqs.Processor != "" {
		record("cpu", compareCPU(host.CPU, reqs.Processor), false)
	}
	if reqs.Graphics != "" {
		record("gpu", compareGPU(host.GPU, reqs.Graphics), false)
	}

	if result.TotalChecks > 0 {
		result.CompatibilityPercentage = 100 * float64(result.Score) / float64(result.TotalChecks)
	}

	return result
}

func compareOS(host domain.OSInfo, required string) domain.ComparisonVerdict {
	if host.Error != "" {
		return domain.ComparisonVerdict{Compatible: false, Reason: "could not detect the OS", Confidence: domain.ConfidenceLow}
	}

	system := strings.ToLower(host.System)
	req := strings.ToLower(required)

	switch {
	case strings.Contains(req, "windows") && strings.Contains(system, "windows"):
		if strings.Contains(req, "windows 10") || strings.Contains(req, "windows 11") {
			if host.Release == "10" || host.Release == "11" {
				return domain.ComparisonVerdict{Compatible: true, Reason: "Windows version compatible", Confidence: domain.ConfidenceHigh}
			}
			return domain.ComparisonVerdict{
				Compatible: false,
				Reason:     fmt.Sprintf("Windows %s may not be compatible", host.Release),
				Confidence: domain.ConfidenceMedium,
			}
		}
		return domain.ComparisonVerdict{Compatible: true, Reason: "Windows detected", Confidence: domain.ConfidenceMedium}
	case strings.Contains(req, "linux") && strings.Contains(system, "linux"):
		return domain.ComparisonVerdict{Compatible: true, Reason: "Linux compatible", Confidence: domain.ConfidenceHigh}
	case strings.Contains(req, "mac") && strings.Contains(system, "darwin"):
		return domain.ComparisonVerdict{Compatible: true, Reason: "macOS compatible", Confidence: domain.ConfidenceHigh}
	}

	return domain.ComparisonVerdict{Compatible: false, Reason: "OS not compatible or not detected", Confidence: domain.ConfidenceLow}
}

func compareRAM(host domain.RAMInfo, required string) domain.ComparisonVerdict {
	if host.Error != "" {
		return domain.ComparisonVerdict{Compatible: false, Reason: "could not detect RAM", Confidence: domain.ConfidenceLow}
	}

	m := ramAmountRegex.FindStringSubmatch(strings.ToLower(required))
	if m == nil {
		return domain.ComparisonVerdict{Compatible: true, Reason: "could not extract RAM requirement", Confidence: domain.ConfidenceLow}
	}

	requiredGB, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.ComparisonVerdict{
			Compatible: false,
			Reason:     fmt.Sprintf("RAM comparison failed: %v", err),
			Confidence: domain.ConfidenceLow,
		}
	}

	hostGB := float64(host.Raw.Total) / bytesPerGiB
	verdict := domain.ComparisonVerdict{
		Confidence:    domain.ConfidenceHigh,
		UserValue:     fmt.Sprintf("%.1fGB", hostGB),
		RequiredValue: fmt.Sprintf("%dGB", requiredGB),
	}
	if hostGB >= float64(requiredGB) {
		verdict.Compatible = true
		verdict.Reason = fmt.Sprintf("enough RAM: %.1fGB >= %dGB", hostGB, requiredGB)
	} else {
		verdict.Reason = fmt.Sprintf("not enough RAM: %.1fGB < %dGB", hostGB, requiredGB)
	}
	return verdict
}

func compareCPU(host domain.CPUInfo, required string) domain.ComparisonVerdict {
	if host.Error != "" {
		return domain.ComparisonVerdict{Compatible: false, Reason: "could not detect the CPU", Confidence: domain.ConfidenceLow}
	}

	if vendorMatch(strings.ToLower(host.Brand), strings.ToLower(required), "intel", "amd") {
		return domain.ComparisonVerdict{Compatible: true, Reason: "CPU brand compatible", Confidence: domain.ConfidenceMedium}
	}
	return domain.ComparisonVerdict{Compatible: true, Reason: "CPU detected (compatibility not verified)", Confidence: domain.ConfidenceLow}
}

func compareGPU(host domain.GPUInfo, required string) domain.ComparisonVerdict {
	if host.Error != "" {
		return domain.ComparisonVerdict{Compatible: false, Reason: "could not detect the GPU", Confidence: domain.ConfidenceLow}
	}

	if vendorMatch(strings.ToLower(host.Name), strings.ToLower(required), "nvidia", "amd", "intel") {
		return domain.ComparisonVerdict{Compatible: true, Reason: "GPU brand compatible", Confidence: domain.ConfidenceMedium}
	}
	return domain.ComparisonVerdict{Compatible: true, Reason: "GPU detected (compatibility not verified)", Confidence: domain.ConfidenceLow}
}

// vendorMatch reports whether some vendor appears in both host and required
func vendorMatch(host, required string, vendors ...string) bool {
	for _, v := range vendors {
		if strings.Contains(required, v) && strings.Contains(host, v) {
			return true
		}
	}
	return false
}
