// Package metrics declares the Prometheus collectors this daemon exposes
// on /metrics, matching the metric table of the original AI-stack
// monitor's modules/metrics.py one-for-one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ServiceUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_service_up",
		Help: "Whether a monitored service answered its health check with HTTP 200 (1) or not (0).",
	}, []string{"service"})

	ServiceResponseTimeMs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_service_response_time_ms",
		Help: "Most recent health-check response time in milliseconds.",
	}, []string{"service"})

	ContainerCPUPercent = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_container_cpu_percent",
		Help: "Container CPU usage percent, computed from two consecutive runtime stats samples.",
	}, []string{"container"})

	ContainerMemoryPercent = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_container_memory_percent",
		Help: "Container memory usage as a percent of its configured limit.",
	}, []string{"container"})

	ContainerMemoryUsageBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_container_memory_usage_bytes",
		Help: "Container memory usage in bytes.",
	}, []string{"container"})

	ContainerNetworkRxBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_container_network_rx_bytes",
		Help: "Cumulative bytes received across all of a container's network interfaces.",
	}, []string{"container"})

	ContainerNetworkTxBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_container_network_tx_bytes",
		Help: "Cumulative bytes sent across all of a container's network interfaces.",
	}, []string{"container"})

	SystemCPUPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ai_stack_system_cpu_percent",
		Help: "Host-wide CPU usage percent.",
	})

	SystemMemoryPercent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ai_stack_system_memory_percent",
		Help: "Host-wide memory usage percent.",
	})

	SystemDiskUsagePercent = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ai_stack_system_disk_usage_percent",
		Help: "Disk usage percent for a host mountpoint.",
	}, []string{"mountpoint"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_stack_http_requests_total",
		Help: "Total HTTP requests served by the monitor's own API, labeled by method/endpoint/status.",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ai_stack_http_request_duration_seconds",
		Help:    "Latency of the monitor's own API requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})
)
