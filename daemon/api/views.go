package api

import (
	"html/template"
	"net/http"

	"github.com/steelburn/ai-stack-build/daemon/history"
)

// The teacher's dependency set carries no templating library beyond the
// standard library, so these views render with html/template rather than
// importing one; see DESIGN.md for why no third-party templating engine
// was wired in instead.
var (
	indexTemplate     = template.Must(template.New("index").Parse(indexHTML))
	resourcesTemplate = template.Must(template.New("resources").Parse(resourcesHTML))
	alertsTemplate    = template.Must(template.New("alerts").Parse(alertsHTML))
	trendsTemplate    = template.Must(template.New("trends").Parse(trendsHTML))
)

func (s *Server) currentSnapshot() (snapshotView, bool) {
	snap, ok := s.store.Latest()
	if !ok {
		return snapshotView{}, false
	}

	names := make(map[string]string, len(s.descriptors))
	for _, d := range s.descriptors {
		names[d.Key] = d.Name
	}

	services := make([]serviceView, 0, len(snap.Services))
	for _, svc := range snap.Services {
		services = append(services, serviceView{Key: svc.Key, Name: names[svc.Key], Status: svc.Status})
	}

	return snapshotView{
		Timestamp:  snap.Timestamp,
		Services:   services,
		Containers: snap.Containers,
		Names:      names,
		System:     snap.System,
	}, true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot()
	renderTemplate(w, indexTemplate, map[string]interface{}{"snapshot": snap, "hasData": ok})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot()
	renderTemplate(w, resourcesTemplate, map[string]interface{}{"snapshot": snap, "hasData": ok})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot()
	var alerts []alertEntry
	if ok {
		alerts = buildAlerts(snap)
	}
	renderTemplate(w, alertsTemplate, map[string]interface{}{"alerts": alerts})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	snaps := s.store.Snapshots()
	renderTemplate(w, trendsTemplate, map[string]interface{}{"snapshots": trendRows(snaps)})
}

type trendRow struct {
	Time          string
	SystemCPU     float64
	SystemMemory  float64
}

func trendRows(snaps []history.Snapshot) []trendRow {
	rows := make([]trendRow, 0, len(snaps))
	for _, snap := range snaps {
		rows = append(rows, trendRow{
			Time:         snap.Timestamp.Format("15:04:05"),
			SystemCPU:    snap.System.CPUPercent,
			SystemMemory: snap.System.MemoryPercent,
		})
	}
	return rows
}

func renderTemplate(w http.ResponseWriter, tpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "template render failed", http.StatusInternalServerError)
	}
}

const indexHTML = `<!doctype html>
<html><head><title>AI Stack Monitor</title></head>
<body>
<h1>AI Stack Monitor</h1>
{{if .hasData}}
<table border="1">
<tr><th>Service</th><th>Status</th></tr>
{{range .snapshot.Services}}
<tr><td>{{.Name}}</td><td>{{.Status.String}}</td></tr>
{{end}}
</table>
{{else}}
<p>No data collected yet.</p>
{{end}}
<p><a href="/resources">Resources</a> | <a href="/alerts">Alerts</a> | <a href="/trends">Trends</a></p>
</body></html>`

const resourcesHTML = `<!doctype html>
<html><head><title>Resources</title></head>
<body>
<h1>Container Resources</h1>
{{if .hasData}}
<table border="1">
<tr><th>Container</th><th>CPU %</th><th>Memory %</th></tr>
{{range $key, $cs := .snapshot.Containers}}
{{if $cs}}
<tr><td>{{$key}}</td><td>{{$cs.CPUPercent}}</td><td>{{$cs.MemoryPercent}}</td></tr>
{{end}}
{{end}}
</table>
{{else}}
<p>No data collected yet.</p>
{{end}}
</body></html>`

const alertsHTML = `<!doctype html>
<html><head><title>Alerts</title></head>
<body>
<h1>Alerts</h1>
{{if .alerts}}
<ul>
{{range .alerts}}
<li>[{{.Severity}}] {{.Service}}: {{.Message}} ({{.FormattedAt}})</li>
{{end}}
</ul>
{{else}}
<p>No active alerts.</p>
{{end}}
</body></html>`

const trendsHTML = `<!doctype html>
<html><head><title>Trends</title></head>
<body>
<h1>Trends</h1>
{{if .snapshots}}
<table border="1">
<tr><th>Time</th><th>System CPU %</th><th>System Memory %</th></tr>
{{range .snapshots}}
<tr><td>{{.Time}}</td><td>{{.SystemCPU}}</td><td>{{.SystemMemory}}</td></tr>
{{end}}
</table>
{{else}}
<p>No history yet.</p>
{{end}}
</body></html>`
