// Package runtime abstracts over the local container runtime so the rest
// of the daemon never imports the Docker SDK directly, and so unit tests
// can inject a fake (grounded on the same interface-over-adapter pattern
// the teacher uses for its Docker plugin's MockCommandExecutor).
package runtime

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by every Adapter method when the runtime
// socket is absent or unreachable. Callers must treat it as a degraded
// mode, never a crash.
var ErrUnavailable = errors.New("container runtime unavailable")

// Container is the minimal shape the monitor needs from a listed container.
type Container struct {
	ID      string
	Name    string
	Running bool
}

// RawStats is one non-streaming sample from the runtime's stats endpoint,
// carrying both the current and the previous accounting period in a
// single response so the Stats Collector can compute deltas without a
// second round trip.
type RawStats struct {
	CPUTotalUsage    uint64
	PreCPUTotalUsage uint64
	CPUSystemUsage   uint64
	PreSystemUsage   uint64
	OnlineCPUs       uint32
	PercpuCount      int

	MemoryUsageBytes uint64
	MemoryLimitBytes uint64

	NetworkRxBytes uint64
	NetworkTxBytes uint64

	BlkioReadBytes  uint64
	BlkioWriteBytes uint64
}

// Adapter is the capability set the rest of the daemon depends on.
type Adapter interface {
	// Available reports whether the runtime responded to a ping at
	// construction time. It does not re-probe.
	Available() bool

	// ListContainers returns containers whose name contains nameSubstring
	// (case-sensitive substring match, not a Docker name filter, since the
	// Engine API's name filter is exact/prefix only).
	ListContainers(ctx context.Context, nameSubstring string) ([]Container, error)

	// FetchLogs returns up to tail lines of combined stdout/stderr, most
	// recent last.
	FetchLogs(ctx context.Context, name string, tail int) ([]string, error)

	// SampleStats returns one raw sample for the named container.
	SampleStats(ctx context.Context, name string) (RawStats, error)

	// SendSignal delivers a Unix signal (e.g. "HUP") to the named container.
	SendSignal(ctx context.Context, name, signal string) error

	// Restart restarts the named container, waiting up to timeout for a
	// graceful stop before killing it.
	Restart(ctx context.Context, name string, timeout time.Duration) error

	// Exec runs argv inside the named container and returns combined output.
	Exec(ctx context.Context, name string, argv []string) (string, error)
}
