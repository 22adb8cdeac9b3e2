package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/steelburn/ai-stack-build/daemon/dto"
	"github.com/steelburn/ai-stack-build/daemon/probe"
	"github.com/steelburn/ai-stack-build/daemon/stats"
)

func chiURLParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// serviceStatus is the per-service shape of GET /api/status, matching the
// original monitor's api_status response one field at a time.
type serviceStatus struct {
	Status       string `json:"status"`
	ResponseTime *int64 `json:"response_time"`
	Error        string `json:"error,omitempty"`
	Name         string `json:"name"`
}

// handleStatus computes a fresh probe read for every registered service on
// every call, rather than serving the last Snapshot, per §4.9's "computed
// fresh on each request (not read from History)".
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Collection.ProbeTimeout+time.Second)
	defer cancel()

	prober := newStatusProber(s.cfg.Collection.ProbeTimeout)
	out := make(map[string]serviceStatus, len(s.descriptors))

	for _, d := range s.descriptors {
		if d.Optional {
			containers, err := s.runtime.ListContainers(ctx, d.Key)
			if err != nil || len(containers) == 0 {
				out[d.Key] = serviceStatus{Status: "disabled", Error: "service not enabled", Name: d.Name}
				continue
			}
		}

		result := prober.Probe(ctx, d.URL)
		entry := serviceStatus{Status: result.String(), Name: d.Name}
		if result.IsUp() {
			rt := result.ResponseTimeMs()
			entry.ResponseTime = &rt
		}
		if result.IsDown() {
			entry.Error = result.Reason()
		}
		out[d.Key] = entry
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"services": out})
}

func newStatusProber(timeout time.Duration) *probe.Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return probe.NewProber(timeout)
}

// handleLogs serves GET /api/logs/{key}?level=&search=&lines=, filtering
// case-insensitively first by level token presence then by substring,
// matching the original monitor's api_logs filter order exactly.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	key := chiURLParam(r, "key")

	descriptor, ok := s.findDescriptor(key)
	if !ok {
		writeAPIError(w, dto.NewServiceNotFoundError(key))
		return
	}

	level := strings.ToLower(r.URL.Query().Get("level"))
	if level == "" {
		level = "all"
	}
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	lines := 50
	if raw := r.URL.Query().Get("lines"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			lines = n
		}
	}

	if !s.runtime.Available() {
		writeAPIError(w, dto.ErrRuntimeUnavailable)
		return
	}

	raw, err := s.runtime.FetchLogs(r.Context(), descriptor.Key, lines)
	if err != nil {
		writeAPIError(w, dto.NewAPIError(dto.ErrCodeInternalError, err.Error(), http.StatusInternalServerError))
		return
	}

	filtered := make([]string, 0, len(raw))
	for _, line := range raw {
		if level != "all" && !strings.Contains(strings.ToUpper(line), strings.ToUpper(level)) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(line), strings.ToLower(search)) {
			continue
		}
		filtered = append(filtered, line)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": filtered})
}

func (s *Server) findDescriptor(key string) (descriptorLite, bool) {
	for _, d := range s.descriptors {
		if d.Key == key {
			return descriptorLite{Key: d.Key, Name: d.Name}, true
		}
	}
	return descriptorLite{}, false
}

type descriptorLite struct {
	Key  string
	Name string
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeAPIError(w http.ResponseWriter, err *dto.APIError) {
	writeJSON(w, err.HTTPStatus, map[string]string{"error": err.Message})
}

// alertEntry is one row in the Alerts view, carrying the same fields the
// original monitor's view_alerts assembles before sorting.
type alertEntry struct {
	Service      string
	Message      string
	Severity     string
	Timestamp    time.Time
	FormattedAt  string
}

var severityOrder = map[string]int{"critical": 0, "warning": 1, "info": 2}

// buildAlerts derives alert rows from the latest Snapshot, applying the
// exact thresholds the original view_alerts used: down (critical),
// response time > 5000ms (warning), container CPU% > 80 (warning),
// container memory% > 85 (critical), system CPU/mem% > 90 (critical).
func buildAlerts(snap snapshotView) []alertEntry {
	var alerts []alertEntry
	now := snap.Timestamp

	for _, svc := range snap.Services {
		if svc.Status.IsDown() {
			alerts = append(alerts, alertEntry{
				Service:   svc.Name,
				Message:   "Service is down: " + svc.Status.Reason(),
				Severity:  "critical",
				Timestamp: now,
			})
		}
		if svc.Status.IsUp() && svc.Status.ResponseTimeMs() > 5000 {
			alerts = append(alerts, alertEntry{
				Service:   svc.Name,
				Message:   "High response time: " + strconv.FormatInt(svc.Status.ResponseTimeMs(), 10) + "ms",
				Severity:  "warning",
				Timestamp: now,
			})
		}
	}

	for key, cs := range snap.Containers {
		name := key
		if n, ok := snap.Names[key]; ok {
			name = n
		}
		if cs == nil {
			continue
		}
		if cs.CPUPercent > 80 {
			alerts = append(alerts, alertEntry{
				Service:   name,
				Message:   "High CPU usage: " + formatPercent(cs.CPUPercent) + "%",
				Severity:  "warning",
				Timestamp: now,
			})
		}
		if cs.MemoryPercent > 85 {
			alerts = append(alerts, alertEntry{
				Service:   name,
				Message:   "High memory usage: " + formatPercent(cs.MemoryPercent) + "%",
				Severity:  "critical",
				Timestamp: now,
			})
		}
	}

	if snap.System.CPUPercent > 90 {
		alerts = append(alerts, alertEntry{
			Service:   "System",
			Message:   "High system CPU usage: " + formatPercent(snap.System.CPUPercent) + "%",
			Severity:  "critical",
			Timestamp: now,
		})
	}
	if snap.System.MemoryPercent > 90 {
		alerts = append(alerts, alertEntry{
			Service:   "System",
			Message:   "High system memory usage: " + formatPercent(snap.System.MemoryPercent) + "%",
			Severity:  "critical",
			Timestamp: now,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		oi, oj := severityOrder[alerts[i].Severity], severityOrder[alerts[j].Severity]
		if oi != oj {
			return oi < oj
		}
		return alerts[i].Timestamp.After(alerts[j].Timestamp)
	})

	for i := range alerts {
		alerts[i].FormattedAt = alerts[i].Timestamp.Format("2006-01-02 15:04:05")
	}

	return alerts
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// snapshotView is the handler-local projection of history.Snapshot plus
// the registry names the template views need, so buildAlerts works on
// this view rather than on history.Snapshot directly.
type snapshotView struct {
	Timestamp  time.Time
	Services   []serviceView
	Containers map[string]*stats.ContainerStats
	Names      map[string]string
	System     stats.System
}

type serviceView struct {
	Key    string
	Name   string
	Status probe.Status
}
