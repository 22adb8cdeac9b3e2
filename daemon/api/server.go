// Package api serves the monitor's HTTP surface: the JSON status/logs
// endpoints, the Prometheus scrape endpoint, the websocket snapshot feed,
// and the template-rendered dashboard views.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cskr/pubsub"

	"github.com/steelburn/ai-stack-build/daemon/domain"
	"github.com/steelburn/ai-stack-build/daemon/history"
	"github.com/steelburn/ai-stack-build/daemon/logger"
	"github.com/steelburn/ai-stack-build/daemon/registry"
	"github.com/steelburn/ai-stack-build/daemon/runtime"
	"github.com/steelburn/ai-stack-build/daemon/stats"
)

// Server owns the daemon's single http.Server and every read dependency
// its handlers need; it never writes to any of them.
type Server struct {
	cfg         domain.Config
	descriptors []registry.Descriptor
	runtime     runtime.Adapter
	store       *history.Store
	hub         *pubsub.PubSub
	systemStats *stats.SystemSampler

	server *http.Server
}

// New builds a Server from its read dependencies. descriptors is the
// resolved Service Registry; the rest come from the same Context the
// Collection Scheduler was built from.
func New(cfg domain.Config, descriptors []registry.Descriptor, adapter runtime.Adapter, store *history.Store, hub *pubsub.PubSub) *Server {
	return &Server{
		cfg:         cfg,
		descriptors: descriptors,
		runtime:     adapter,
		store:       store,
		hub:         hub,
		systemStats: stats.NewSystemSampler(),
	}
}

// Start builds the router and begins serving in a background goroutine,
// mirroring the teacher's fire-and-forget ListenAndServe/log-on-error
// pattern rather than blocking the caller.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.HTTPServer.Host, s.cfg.HTTPServer.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Blue("starting HTTP surface on %s", addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Yellow("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully drains in-flight requests before returning.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Blue("shutting down HTTP surface...")
	return s.server.Shutdown(ctx)
}
