package stats

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemSampler wraps gopsutil, the idiomatic-Go analogue of the original
// implementation's psutil usage, to gather host-wide CPU/memory/disk
// figures independent of any single container.
type SystemSampler struct{}

// NewSystemSampler returns a ready-to-use SystemSampler.
func NewSystemSampler() *SystemSampler { return &SystemSampler{} }

// Sample gathers one host-wide reading. CPU percent uses gopsutil's
// non-blocking mode (interval 0): it covers the time since the previous
// call rather than a fresh measurement window.
func (s *SystemSampler) Sample(ctx context.Context) (System, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return System{}, err
	}
	var cpuPercent float64
	if len(cpuPercents) > 0 {
		cpuPercent = round2(cpuPercents[0])
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return System{}, err
	}

	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return System{}, err
	}

	diskPercent := make(map[string]float64, len(partitions))
	for _, part := range partitions {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			continue
		}
		diskPercent[part.Mountpoint] = round2(usage.UsedPercent)
	}

	return System{
		CPUPercent:    cpuPercent,
		MemoryPercent: round2(vm.UsedPercent),
		DiskPercent:   diskPercent,
	}, nil
}
