package hwaccel

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostInfo summarizes the host the encoders run on. It is reported by
// the capabilities endpoint so callers can decide how many conversions
// to request at once.
type HostInfo struct {
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	CPUModel       string `json:"cpu_model,omitempty"`
	LogicalCores   int    `json:"logical_cores"`
	MemoryTotalMB  uint64 `json:"memory_total_mb"`
	GoMaxProcs     int    `json:"gomaxprocs"`
}

// Host gathers CPU and memory information. Lookup failures leave the
// corresponding fields zeroed; none of them are required for planning.
func Host() HostInfo {
	info := HostInfo{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		GoMaxProcs: runtime.GOMAXPROCS(0),
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if count, err := cpu.Counts(true); err == nil {
		info.LogicalCores = count
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryTotalMB = vm.Total / (1024 * 1024)
	}

	return info
}
