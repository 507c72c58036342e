package hostinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/steamexplorer/backend/internal/domain"
)

const bytesPerGiB = 1024 * 1024 * 1024

// ErrNoGPU is reported when no graphics card is found
var ErrNoGPU = errors.New("no GPU detected")

// GraphicsCard is the subset of a detected card the inspector reports
type GraphicsCard struct {
	Name   string
	Vendor string
	Driver string
}

// Probes are the OS queries used by the Inspector. Tests replace them.
type Probes struct {
	HostInfo      func(ctx context.Context) (*host.InfoStat, error)
	CPUInfo       func(ctx context.Context) ([]cpu.InfoStat, error)
	CPUCounts     func(ctx context.Context, logical bool) (int, error)
	CPUPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	VirtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	GPUs          func() ([]GraphicsCard, error)
}

// DefaultProbes query the running machine through gopsutil and ghw
func DefaultProbes() Probes {
	return Probes{
		HostInfo:      host.InfoWithContext,
		CPUInfo:       cpu.InfoWithContext,
		CPUCounts:     cpu.CountsWithContext,
		CPUPercent:    cpu.PercentWithContext,
		VirtualMemory: mem.VirtualMemoryWithContext,
		GPUs:          ghwGraphicsCards,
	}
}

func ghwGraphicsCards() ([]GraphicsCard, error) {
	info, err := ghw.GPU()
	if err != nil {
		return nil, err
	}

	cards := make([]GraphicsCard, 0, len(info.GraphicsCards))
	for _, gc := range info.GraphicsCards {
		if gc == nil || gc.DeviceInfo == nil {
			continue
		}
		card := GraphicsCard{Driver: gc.DeviceInfo.Driver}
		if gc.DeviceInfo.Vendor != nil {
			card.Vendor = gc.DeviceInfo.Vendor.Name
		}
		if gc.DeviceInfo.Product != nil {
			card.Name = gc.DeviceInfo.Product.Name
		}
		if card.Vendor != "" && !strings.Contains(strings.ToLower(card.Name), strings.ToLower(firstWord(card.Vendor))) {
			card.Name = strings.TrimSpace(card.Vendor + " " + card.Name)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// Inspector reads OS, CPU, RAM and GPU information of the local machine
type Inspector struct {
	probes         Probes
	sampleInterval time.Duration
}

// NewInspector creates an inspector. sampleInterval is the CPU usage sampling window.
func NewInspector(probes Probes, sampleInterval time.Duration) *Inspector {
	return &Inspector{probes: probes, sampleInterval: sampleInterval}
}

// Inspect runs every probe. A failing probe sets the Error of its component only.
func (i *Inspector) Inspect(ctx context.Context) domain.HostSpec {
	return domain.HostSpec{
		OS:  i.osInfo(ctx),
		CPU: i.cpuInfo(ctx),
		RAM: i.ramInfo(ctx),
		GPU: i.gpuInfo(),
	}
}

// Summary returns one line per component, "error: ..." when a probe fails
func (i *Inspector) Summary(ctx context.Context) domain.HostSummary {
	spec := domain.HostSpec{
		OS:  i.osInfo(ctx),
		RAM: i.ramInfo(ctx),
		GPU: i.gpuInfo(),
	}

	var summary domain.HostSummary

	if spec.OS.Error != "" {
		summary.OS = "error: " + spec.OS.Error
	} else {
		summary.OS = spec.OS.FullName
	}

	if brand, err := i.cpuBrand(ctx); err != nil {
		summary.CPU = "error: " + err.Error()
	} else {
		summary.CPU = brand
	}

	if spec.RAM.Error != "" {
		summary.RAM = "error: " + spec.RAM.Error
	} else {
		summary.RAM = "Total: " + spec.RAM.Total
	}

	if spec.GPU.Error != "" {
		summary.GPU = "error: " + spec.GPU.Error
	} else {
		summary.GPU = spec.GPU.Name
	}

	return summary
}

func (i *Inspector) osInfo(ctx context.Context) domain.OSInfo {
	info, err := i.probes.HostInfo(ctx)
	if err != nil {
		slog.Warn("host OS probe failed", "error", err)
		return domain.OSInfo{Error: err.Error()}
	}

	system := cases.Title(language.Und).String(info.OS)
	release := osRelease(info)

	return domain.OSInfo{
		System:   system,
		Release:  release,
		Version:  info.PlatformVersion,
		Machine:  info.KernelArch,
		FullName: strings.TrimSpace(system + " " + release),
	}
}

// osRelease mirrors the usual platform release value: the marketing version on
// Windows ("10", "11") and the kernel version elsewhere
func osRelease(info *host.InfoStat) string {
	if info.OS != "windows" {
		return info.KernelVersion
	}

	platform := strings.ToLower(info.Platform)
	switch {
	case strings.Contains(platform, "windows 11"):
		return "11"
	case strings.Contains(platform, "windows 10"):
		return "10"
	}
	return firstWord(strings.SplitN(info.PlatformVersion, ".", 2)[0])
}

func (i *Inspector) cpuBrand(ctx context.Context) (string, error) {
	infos, err := i.probes.CPUInfo(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", errors.New("no CPU information reported")
	}
	return strings.TrimSpace(infos[0].ModelName), nil
}

func (i *Inspector) cpuInfo(ctx context.Context) domain.CPUInfo {
	infos, err := i.probes.CPUInfo(ctx)
	if err == nil && len(infos) == 0 {
		err = errors.New("no CPU information reported")
	}
	if err != nil {
		slog.Warn("host CPU probe failed", "error", err)
		return domain.CPUInfo{Error: err.Error()}
	}

	// Mhz is the rated clock; gopsutil has no current reading
	result := domain.CPUInfo{
		Brand:        strings.TrimSpace(infos[0].ModelName),
		Frequency:    domain.CPUFrequency{Max: infos[0].Mhz},
		Architecture: runtime.GOARCH,
	}

	if n, err := i.probes.CPUCounts(ctx, false); err == nil {
		result.CoresPhysical = n
	}
	if n, err := i.probes.CPUCounts(ctx, true); err == nil {
		result.CoresLogical = n
	}
	if usage, err := i.probes.CPUPercent(ctx, i.sampleInterval, false); err == nil && len(usage) > 0 {
		result.UsagePercent = round2(usage[0])
	} else if err != nil {
		slog.Debug("CPU usage sample failed", "error", err)
	}

	return result
}

func (i *Inspector) ramInfo(ctx context.Context) domain.RAMInfo {
	vm, err := i.probes.VirtualMemory(ctx)
	if err != nil {
		slog.Warn("host memory probe failed", "error", err)
		return domain.RAMInfo{Error: err.Error()}
	}

	return domain.RAMInfo{
		Total:       formatGB(vm.Total),
		Available:   formatGB(vm.Available),
		Used:        formatGB(vm.Used),
		PercentUsed: fmt.Sprintf("%.1f%%", vm.UsedPercent),
		Raw: domain.RAMRaw{
			Total:     vm.Total,
			Available: vm.Available,
			Used:      vm.Used,
			Percent:   vm.UsedPercent,
			TotalGB:   round2(float64(vm.Total) / bytesPerGiB),
		},
	}
}

func (i *Inspector) gpuInfo() domain.GPUInfo {
	cards, err := i.probes.GPUs()
	if err == nil && len(cards) == 0 {
		err = ErrNoGPU
	}
	if err != nil {
		slog.Debug("host GPU probe failed", "error", err)
		return domain.GPUInfo{Error: err.Error()}
	}

	card := cards[0]
	return domain.GPUInfo{
		Name:   card.Name,
		Vendor: card.Vendor,
		Driver: card.Driver,
		Source: "ghw",
	}
}

func formatGB(bytes uint64) string {
	return fmt.Sprintf("%.2f GB", float64(bytes)/bytesPerGiB)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
