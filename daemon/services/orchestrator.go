// Package services wires every module the daemon owns into one running
// process and drives its startup/shutdown sequence.
package services

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/steelburn/ai-stack-build/daemon/api"
	"github.com/steelburn/ai-stack-build/daemon/domain"
	"github.com/steelburn/ai-stack-build/daemon/history"
	"github.com/steelburn/ai-stack-build/daemon/logger"
	"github.com/steelburn/ai-stack-build/daemon/probe"
	"github.com/steelburn/ai-stack-build/daemon/reconciler"
	"github.com/steelburn/ai-stack-build/daemon/registry"
	"github.com/steelburn/ai-stack-build/daemon/runtime"
	"github.com/steelburn/ai-stack-build/daemon/scheduler"
	"github.com/steelburn/ai-stack-build/daemon/stats"
)

// Orchestrator builds every collaborator from the daemon's Context and
// runs the Collection Scheduler and HTTP Surface concurrently until a
// shutdown signal arrives, the same run-then-wait-on-signal shape as the
// teacher's own Orchestrator.
type Orchestrator struct {
	ctx *domain.Context
}

func CreateOrchestrator(ctx *domain.Context) *Orchestrator {
	return &Orchestrator{ctx: ctx}
}

func (o *Orchestrator) Run() error {
	cfg := o.ctx.Config
	logger.Blue("starting ai-stack monitor %s ...", cfg.Version)

	descriptors, err := registry.Load()
	if err != nil {
		logger.Yellow("registry load degraded: %v", err)
	}

	adapter := runtime.NewDockerAdapter(cfg.Reconciler.DockerHost)
	prober := probe.NewProber(cfg.Collection.ProbeTimeout)
	systemStats := stats.NewSystemSampler()
	store := history.NewStore(cfg.Collection.HistorySize)
	rec := reconciler.New(cfg.Reconciler.UpstreamDir, cfg.Reconciler.ReloadCooldown, cfg.Reconciler.NginxContainer, adapter)

	ownAddress := cfg.HTTPServer.Host + ":" + itoa(cfg.HTTPServer.Port)
	if err := rec.Seed(context.Background(), ownAddress); err != nil {
		logger.Yellow("reconciler seed failed: %v", err)
	}

	sched := scheduler.New(scheduler.Config{
		Descriptors: descriptors,
		Prober:      prober,
		Runtime:     adapter,
		SystemStats: systemStats,
		Store:       store,
		Reconciler:  rec,
		Hub:         o.ctx.Hub,
		Tick:        cfg.Collection.TickInterval,
	})

	schedCtx, cancelSched := context.WithCancel(context.Background())
	go sched.Run(schedCtx)

	httpServer := api.New(cfg, descriptors, adapter, store, o.ctx.Hub)
	if cfg.HTTPServer.Enabled {
		if err := httpServer.Start(); err != nil {
			cancelSched()
			return err
		}
	}

	w := make(chan os.Signal, 1)
	signal.Notify(w, syscall.SIGTERM, syscall.SIGINT)
	sig := <-w
	logger.Blue("received %s signal, shutting down ...", sig)

	cancelSched()
	if err := httpServer.Stop(); err != nil {
		logger.Yellow("error during HTTP shutdown: %v", err)
	}

	logger.Blue("ai-stack monitor shutdown complete")
	return nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
