// Package stats turns one raw runtime sample into the percentages and byte
// counters the rest of the daemon reports, following the exact formulas of
// the original Python implementation's docker_utils.py.
package stats

import (
	"math"

	"github.com/steelburn/ai-stack-build/daemon/runtime"
)

// ContainerStats is the computed view of one container's resource usage.
// A nil *ContainerStats represents "no data available" (e.g. the sample
// could not be taken), distinct from a zeroed struct which would claim 0%
// usage.
type ContainerStats struct {
	CPUPercent     float64
	MemoryPercent  float64
	MemoryBytes    uint64
	NetworkRxBytes uint64
	NetworkTxBytes uint64
	DiskReadBytes  uint64
	DiskWriteBytes uint64
}

// Compute derives a ContainerStats from a RawStats sample. It returns nil
// only when the sample itself is unusable (zero online-CPU AND zero
// percpu-usage count, meaning the runtime never reported a CPU topology).
func Compute(raw runtime.RawStats) *ContainerStats {
	numCPU := float64(raw.OnlineCPUs)
	if numCPU == 0 {
		numCPU = float64(raw.PercpuCount)
	}
	if numCPU == 0 {
		return nil
	}

	cpuDelta := float64(raw.CPUTotalUsage) - float64(raw.PreCPUTotalUsage)
	systemDelta := float64(raw.CPUSystemUsage) - float64(raw.PreSystemUsage)

	var cpuPercent float64
	if systemDelta > 0 && cpuDelta >= 0 {
		cpuPercent = round2((cpuDelta / systemDelta) * numCPU * 100.0)
	}

	var memPercent float64
	if raw.MemoryLimitBytes > 0 {
		memPercent = round2(float64(raw.MemoryUsageBytes) / float64(raw.MemoryLimitBytes) * 100.0)
	}

	return &ContainerStats{
		CPUPercent:     cpuPercent,
		MemoryPercent:  memPercent,
		MemoryBytes:    raw.MemoryUsageBytes,
		NetworkRxBytes: raw.NetworkRxBytes,
		NetworkTxBytes: raw.NetworkTxBytes,
		DiskReadBytes:  raw.BlkioReadBytes,
		DiskWriteBytes: raw.BlkioWriteBytes,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// System is one sample of host-wide resource usage.
type System struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   map[string]float64
}
