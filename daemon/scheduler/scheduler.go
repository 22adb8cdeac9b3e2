// Package scheduler runs the single periodic collection loop that probes
// every registered service, samples container and system stats, appends a
// Snapshot to history, updates the Prometheus gauges, and drives the
// Reconciler off each service's state transition.
package scheduler

import (
	"context"
	"time"

	"github.com/cskr/pubsub"

	"github.com/steelburn/ai-stack-build/daemon/domain"
	"github.com/steelburn/ai-stack-build/daemon/history"
	"github.com/steelburn/ai-stack-build/daemon/logger"
	"github.com/steelburn/ai-stack-build/daemon/metrics"
	"github.com/steelburn/ai-stack-build/daemon/probe"
	"github.com/steelburn/ai-stack-build/daemon/reconciler"
	"github.com/steelburn/ai-stack-build/daemon/registry"
	"github.com/steelburn/ai-stack-build/daemon/runtime"
	"github.com/steelburn/ai-stack-build/daemon/stats"
)

// statsSampleTimeout bounds a single per-service SampleStats/ListContainers
// call so a hung docker stats socket can never hold the scheduler back more
// than one tick, per the concurrency model's "never falls more than one
// tick behind" requirement.
const statsSampleTimeout = 5 * time.Second

// Scheduler owns the ServiceStateTable: it is the sole writer of history
// Snapshots and the sole caller into the Reconciler.
type Scheduler struct {
	descriptors []registry.Descriptor
	prober      *probe.Prober
	runtime     runtime.Adapter
	systemStats *stats.SystemSampler
	store       *history.Store
	reconciler  *reconciler.Reconciler
	hub         *pubsub.PubSub
	tick        time.Duration

	state map[string]probe.Status
	cycle int
}

// Config bundles the Scheduler's collaborators so New has a single,
// readable argument.
type Config struct {
	Descriptors []registry.Descriptor
	Prober      *probe.Prober
	Runtime     runtime.Adapter
	SystemStats *stats.SystemSampler
	Store       *history.Store
	Reconciler  *reconciler.Reconciler
	Hub         *pubsub.PubSub
	Tick        time.Duration
}

// New builds a Scheduler from cfg.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		descriptors: cfg.Descriptors,
		prober:      cfg.Prober,
		runtime:     cfg.Runtime,
		systemStats: cfg.SystemStats,
		store:       cfg.Store,
		reconciler:  cfg.Reconciler,
		hub:         cfg.Hub,
		tick:        cfg.Tick,
		state:       make(map[string]probe.Status, len(cfg.Descriptors)),
	}
}

// Run blocks, ticking every cfg.Tick until ctx is cancelled. The first
// pass runs immediately rather than waiting for the first tick.
func (s *Scheduler) Run(ctx context.Context) {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := time.Now()
	s.cycle++

	defer func() {
		if r := recover(); r != nil {
			logger.Error("collection cycle %d aborted: %v", s.cycle, r)
		}
	}()

	snap := history.Snapshot{
		Timestamp:  start,
		Containers: make(map[string]*stats.ContainerStats),
	}

	// Deterministic, registry-insertion-order iteration.
	for _, d := range s.descriptors {
		status := s.collectService(ctx, d)
		if status.IsDisabled() {
			continue
		}

		// A key with no earlier observation is unknown, which the
		// reconciler's transition policy treats the same as down.
		previous, seen := s.state[d.Key]
		if !seen {
			previous = probe.Down("")
		}
		s.state[d.Key] = status
		s.reconciler.Observe(ctx, d.Key, previous, status)

		snap.Services = append(snap.Services, history.ServiceSample{Key: d.Key, Status: status})
		updateServiceMetrics(d.Name, status)

		statsCtx, cancel := context.WithTimeout(ctx, statsSampleTimeout)
		raw, err := s.runtime.SampleStats(statsCtx, d.Key)
		cancel()
		if err == nil {
			cs := stats.Compute(raw)
			snap.Containers[d.Key] = cs
			updateContainerMetrics(d.Key, cs)
		}
	}

	if sys, err := s.systemStats.Sample(ctx); err == nil {
		snap.System = sys
		updateSystemMetrics(sys)
	}

	s.store.Append(snap)
	if s.hub != nil {
		s.hub.Pub(snap, domain.SnapshotTopic)
	}

	logger.LogCollectionCycle(s.cycle, len(s.descriptors), time.Since(start))
}

// collectService probes one service, honoring the optional-flag skip rule:
// an optional service with no matching container is not probed and comes
// back Disabled, which runOnce skips so it contributes nothing to the
// snapshot, the state table or the reconciler. The
// container-listing check is itself bounded so a hung runtime call can't
// stall probing of every other descriptor in the same cycle.
func (s *Scheduler) collectService(ctx context.Context, d registry.Descriptor) probe.Status {
	if d.Optional {
		listCtx, cancel := context.WithTimeout(ctx, statsSampleTimeout)
		containers, err := s.runtime.ListContainers(listCtx, d.Key)
		cancel()
		if err != nil || len(containers) == 0 {
			return probe.Disabled()
		}
	}

	status := s.prober.Probe(ctx, d.URL)
	var reason string
	if status.IsDown() {
		reason = status.Reason()
	}
	logger.LogProbeResult(d.Key, status.String(), status.ResponseTimeMs(), reason)
	return status
}

// updateServiceMetrics labels the service gauges with the descriptor's
// human name ("Dify API"), not its key ("dify-api"), matching the
// original monitor's service_up.labels(service=name).
func updateServiceMetrics(name string, status probe.Status) {
	if status.IsDisabled() {
		return
	}
	up := 0.0
	if status.IsUp() {
		up = 1.0
		metrics.ServiceResponseTimeMs.WithLabelValues(name).Set(float64(status.ResponseTimeMs()))
	}
	metrics.ServiceUp.WithLabelValues(name).Set(up)
}

func updateContainerMetrics(key string, cs *stats.ContainerStats) {
	if cs == nil {
		return
	}
	metrics.ContainerCPUPercent.WithLabelValues(key).Set(cs.CPUPercent)
	metrics.ContainerMemoryPercent.WithLabelValues(key).Set(cs.MemoryPercent)
	metrics.ContainerMemoryUsageBytes.WithLabelValues(key).Set(float64(cs.MemoryBytes))
	metrics.ContainerNetworkRxBytes.WithLabelValues(key).Set(float64(cs.NetworkRxBytes))
	metrics.ContainerNetworkTxBytes.WithLabelValues(key).Set(float64(cs.NetworkTxBytes))
}

func updateSystemMetrics(sys stats.System) {
	metrics.SystemCPUPercent.Set(sys.CPUPercent)
	metrics.SystemMemoryPercent.Set(sys.MemoryPercent)
	for mountpoint, pct := range sys.DiskPercent {
		metrics.SystemDiskUsagePercent.WithLabelValues(mountpoint).Set(pct)
	}
}
