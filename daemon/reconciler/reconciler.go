// Package reconciler rewrites the nginx reverse-proxy's upstream
// fragments on service state transitions and signals a reload, grounded
// on the original AI-stack monitor's service_monitor.py
// update_nginx_upstream/reload_nginx pair.
package reconciler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/steelburn/ai-stack-build/daemon/logger"
	"github.com/steelburn/ai-stack-build/daemon/probe"
	"github.com/steelburn/ai-stack-build/daemon/runtime"
)

// UpstreamTarget names the nginx upstream block and its single backend
// address for one monitored service.
type UpstreamTarget struct {
	UpstreamName string
	Address      string
}

// Mapping is the literal service-key to upstream-target table from the
// original service_monitor.py's service_upstream_map, extended with the
// monitor's own entry so Seed has a real address to write for itself.
var Mapping = map[string]UpstreamTarget{
	"dify-api":    {UpstreamName: "dify", Address: "dify-api:8080"},
	"dify-web":    {UpstreamName: "dify-web", Address: "dify-web:3000"},
	"n8n":         {UpstreamName: "n8n", Address: "n8n:5678"},
	"flowise":     {UpstreamName: "flowise", Address: "flowise:3000"},
	"openwebui":   {UpstreamName: "openwebui", Address: "openwebui:8080"},
	"litellm":     {UpstreamName: "litellm", Address: "litellm:4000"},
	"openmemory":  {UpstreamName: "openmemory", Address: "openmemory:8765"},
	"ollama":      {UpstreamName: "ollama", Address: "ollama:11434"},
	"ollama-webui": {UpstreamName: "ollama-webui", Address: "ollama-webui:8080"},
	"adminer":     {UpstreamName: "adminer", Address: "adminer:8080"},
	"monitor":     {UpstreamName: "monitor", Address: "monitor:8080"},
}

// Placeholder is written for upstreams with no known address yet, matching
// nginx's own convention of a dead backend that fails fast rather than
// hanging.
const Placeholder = "127.0.0.1:1"

// Reconciler owns the rate-limited write+reload cycle.
type Reconciler struct {
	mu             sync.Mutex
	dir            string
	cooldown       time.Duration
	nginxContainer string
	adapter        runtime.Adapter
	lastReload     time.Time
}

// New returns a Reconciler writing fragments under dir, reloading nginx
// (matched by nginxContainer substring) no more than once per cooldown.
func New(dir string, cooldown time.Duration, nginxContainer string, adapter runtime.Adapter) *Reconciler {
	return &Reconciler{
		dir:            dir,
		cooldown:       cooldown,
		nginxContainer: nginxContainer,
		adapter:        adapter,
	}
}

// Seed writes every known upstream's placeholder address, except the
// monitor's own upstream which is seeded with its real listen address, so
// nginx always has a syntactically valid config even before the first
// collection cycle completes.
func (r *Reconciler) Seed(ctx context.Context, ownAddress string) error {
	for key, target := range Mapping {
		addr := Placeholder
		if key == "monitor" && ownAddress != "" {
			addr = ownAddress
		}
		if err := r.writeUpstream(target.UpstreamName, addr); err != nil {
			return fmt.Errorf("seed upstream %s: %w", target.UpstreamName, err)
		}
	}
	return nil
}

// Observe applies the service-state-transition policy: only a transition
// from down/unknown to up rewrites the upstream and triggers a reload.
func (r *Reconciler) Observe(ctx context.Context, key string, previous, current probe.Status) {
	target, known := Mapping[key]
	if !known {
		return
	}

	transitionedUp := !previous.IsUp() && current.IsUp()
	if !transitionedUp {
		return
	}

	if err := r.writeUpstream(target.UpstreamName, target.Address); err != nil {
		logger.Yellow("failed writing upstream for %s: %v", key, err)
		return
	}

	reloaded := r.maybeReload(ctx)
	logger.LogReconcile(key, target.UpstreamName, target.Address, reloaded)
}

func (r *Reconciler) writeUpstream(upstreamName, address string) error {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return err
	}
	contents := fmt.Sprintf("upstream %s {\n    server %s;\n}\n", upstreamName, address)
	path := filepath.Join(r.dir, upstreamName+".conf")
	return os.WriteFile(path, []byte(contents), 0644)
}

// maybeReload signals nginx to reload its config if the cooldown has
// elapsed since the last reload, returning whether it actually reloaded.
func (r *Reconciler) maybeReload(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if time.Since(r.lastReload) < r.cooldown {
		return false
	}

	containers, err := r.adapter.ListContainers(ctx, r.nginxContainer)
	if err != nil || len(containers) == 0 {
		logger.Yellow("nginx container matching %q not found, skipping reload", r.nginxContainer)
		return false
	}

	if err := r.adapter.SendSignal(ctx, containers[0].Name, "HUP"); err != nil {
		logger.Yellow("failed to signal nginx reload: %v", err)
		return false
	}

	r.lastReload = time.Now()
	return true
}
