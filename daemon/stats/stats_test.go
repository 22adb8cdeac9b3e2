package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelburn/ai-stack-build/daemon/runtime"
)

func TestCompute_CPUPercentFromDeltas(t *testing.T) {
	raw := runtime.RawStats{
		CPUTotalUsage:    2_000_000_000,
		PreCPUTotalUsage: 1_000_000_000,
		CPUSystemUsage:   10_000_000_000,
		PreSystemUsage:   9_000_000_000,
		OnlineCPUs:       2,
		MemoryUsageBytes: 512 * 1024 * 1024,
		MemoryLimitBytes: 1024 * 1024 * 1024,
	}

	got := Compute(raw)
	require.NotNil(t, got)
	// cpuDelta=1e9, systemDelta=1e9 -> (1e9/1e9)*2*100 = 200%
	assert.Equal(t, 200.0, got.CPUPercent)
	assert.Equal(t, 50.0, got.MemoryPercent)
}

func TestCompute_ZeroSystemDeltaYieldsZeroPercent(t *testing.T) {
	raw := runtime.RawStats{
		CPUTotalUsage:    100,
		PreCPUTotalUsage: 100,
		CPUSystemUsage:   500,
		PreSystemUsage:   500,
		OnlineCPUs:       1,
	}
	got := Compute(raw)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, got.CPUPercent)
}

func TestCompute_ZeroMemoryLimitYieldsZeroPercent(t *testing.T) {
	raw := runtime.RawStats{
		CPUSystemUsage: 1,
		OnlineCPUs:     1,
		MemoryLimitBytes: 0,
		MemoryUsageBytes: 1000,
	}
	got := Compute(raw)
	require.NotNil(t, got)
	assert.Equal(t, 0.0, got.MemoryPercent)
}

func TestCompute_FallsBackToPercpuCountWhenOnlineCPUsMissing(t *testing.T) {
	raw := runtime.RawStats{
		CPUTotalUsage:    4_000_000_000,
		PreCPUTotalUsage: 0,
		CPUSystemUsage:   4_000_000_000,
		PreSystemUsage:   0,
		OnlineCPUs:       0,
		PercpuCount:      4,
	}
	got := Compute(raw)
	require.NotNil(t, got)
	// cpuDelta=systemDelta -> ratio 1 * 4 cpus * 100 = 400%
	assert.Equal(t, 400.0, got.CPUPercent)
}
