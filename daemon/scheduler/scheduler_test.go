package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cskr/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelburn/ai-stack-build/daemon/history"
	"github.com/steelburn/ai-stack-build/daemon/probe"
	"github.com/steelburn/ai-stack-build/daemon/reconciler"
	"github.com/steelburn/ai-stack-build/daemon/registry"
	"github.com/steelburn/ai-stack-build/daemon/runtime"
	"github.com/steelburn/ai-stack-build/daemon/stats"
)

func TestScheduler_RunOnceAppendsSnapshotInRegistryOrder(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	defer up.Close()
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }))
	defer down.Close()

	descriptors := []registry.Descriptor{
		{Key: "svc-a", Name: "A", URL: up.URL},
		{Key: "svc-b", Name: "B", URL: down.URL},
	}

	fakeRuntime := runtime.NewFake()
	fakeRuntime.Containers = []runtime.Container{{Name: "ai-stack-nginx-1", Running: true}}
	store := history.NewStore(10)
	rec := reconciler.New(t.TempDir(), time.Hour, "nginx", fakeRuntime)

	sched := New(Config{
		Descriptors: descriptors,
		Prober:      probe.NewProber(time.Second),
		Runtime:     fakeRuntime,
		SystemStats: stats.NewSystemSampler(),
		Store:       store,
		Reconciler:  rec,
		Hub:         pubsub.New(1),
		Tick:        time.Hour,
	})

	sched.runOnce(context.Background())

	snaps := store.Snapshots()
	require.Len(t, snaps, 1)
	require.Len(t, snaps[0].Services, 2)
	assert.Equal(t, "svc-a", snaps[0].Services[0].Key)
	assert.True(t, snaps[0].Services[0].Status.IsUp())
	assert.Equal(t, "svc-b", snaps[0].Services[1].Key)
	assert.True(t, snaps[0].Services[1].Status.IsDown())
}

func TestScheduler_OptionalServiceWithNoContainerIsDisabled(t *testing.T) {
	descriptors := []registry.Descriptor{
		{Key: "ghost", Name: "Ghost", URL: "http://unused/health", Optional: true},
	}

	fakeRuntime := runtime.NewFake()
	store := history.NewStore(10)
	rec := reconciler.New(t.TempDir(), time.Hour, "nginx", fakeRuntime)

	sched := New(Config{
		Descriptors: descriptors,
		Prober:      probe.NewProber(time.Second),
		Runtime:     fakeRuntime,
		SystemStats: stats.NewSystemSampler(),
		Store:       store,
		Reconciler:  rec,
		Hub:         pubsub.New(1),
		Tick:        time.Hour,
	})

	sched.runOnce(context.Background())

	snaps := store.Snapshots()
	require.Len(t, snaps, 1)
	require.Len(t, snaps[0].Services, 0)
	assert.True(t, sched.collectService(context.Background(), descriptors[0]).IsDisabled())
	_, hasContainer := snaps[0].Containers["ghost"]
	assert.False(t, hasContainer)
}
