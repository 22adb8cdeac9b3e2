package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/steelburn/ai-stack-build/daemon/logger"
	"github.com/steelburn/ai-stack-build/daemon/metrics"
	"github.com/steelburn/ai-stack-build/daemon/stats"
)

// scrapeSampleTimeout bounds each pull-side SampleStats call so a slow
// scrape can't hang the whole /metrics response on one stuck container.
const scrapeSampleTimeout = 5 * time.Second

// handleMetricsScrape refreshes the system and per-container gauges inline
// before delegating to the standard Prometheus text exposition handler,
// matching §4.5's requirement that a scrape itself, not just the
// collection cycle, keeps these gauges current.
func (s *Server) handleMetricsScrape() http.Handler {
	promHandler := promhttp.Handler()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sys, err := s.systemStats.Sample(r.Context()); err == nil {
			metrics.SystemCPUPercent.Set(sys.CPUPercent)
			metrics.SystemMemoryPercent.Set(sys.MemoryPercent)
			for mountpoint, pct := range sys.DiskPercent {
				metrics.SystemDiskUsagePercent.WithLabelValues(mountpoint).Set(pct)
			}
		} else {
			logger.Warn("scrape-time system sample failed: %v", err)
		}

		for _, d := range s.descriptors {
			ctx, cancel := context.WithTimeout(r.Context(), scrapeSampleTimeout)
			raw, err := s.runtime.SampleStats(ctx, d.Key)
			cancel()
			if err != nil {
				continue
			}
			refreshContainerMetrics(d.Key, stats.Compute(raw))
		}

		promHandler.ServeHTTP(w, r)
	})
}

func refreshContainerMetrics(key string, cs *stats.ContainerStats) {
	if cs == nil {
		return
	}
	metrics.ContainerCPUPercent.WithLabelValues(key).Set(cs.CPUPercent)
	metrics.ContainerMemoryPercent.WithLabelValues(key).Set(cs.MemoryPercent)
	metrics.ContainerMemoryUsageBytes.WithLabelValues(key).Set(float64(cs.MemoryBytes))
	metrics.ContainerNetworkRxBytes.WithLabelValues(key).Set(float64(cs.NetworkRxBytes))
	metrics.ContainerNetworkTxBytes.WithLabelValues(key).Set(float64(cs.NetworkTxBytes))
}
