package reconciler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steelburn/ai-stack-build/daemon/probe"
	"github.com/steelburn/ai-stack-build/daemon/runtime"
)

func fakeWithNginx() *runtime.Fake {
	f := runtime.NewFake()
	f.Containers = []runtime.Container{{ID: "abc", Name: "ai-stack-nginx-1", Running: true}}
	return f
}

func TestObserve_DownToUpWritesUpstreamAndReloads(t *testing.T) {
	dir := t.TempDir()
	fake := fakeWithNginx()
	r := New(dir, 30*time.Second, "nginx", fake)

	r.Observe(context.Background(), "dify-api", probe.Down("HTTP 503"), probe.Up(12))

	contents, err := os.ReadFile(filepath.Join(dir, "dify.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "server dify-api:8080;")
	require.Len(t, fake.Signals, 1)
	assert.Equal(t, "HUP", fake.Signals[0].Signal)
}

func TestObserve_UpToUpDoesNotRewrite(t *testing.T) {
	dir := t.TempDir()
	fake := fakeWithNginx()
	r := New(dir, 30*time.Second, "nginx", fake)

	r.Observe(context.Background(), "dify-api", probe.Up(10), probe.Up(12))

	_, err := os.Stat(filepath.Join(dir, "dify.conf"))
	assert.True(t, os.IsNotExist(err), "no transition means no upstream write")
	assert.Empty(t, fake.Signals)
}

func TestObserve_RespectsReloadCooldown(t *testing.T) {
	dir := t.TempDir()
	fake := fakeWithNginx()
	r := New(dir, time.Hour, "nginx", fake)

	r.Observe(context.Background(), "dify-api", probe.Down(""), probe.Up(1))
	r.Observe(context.Background(), "n8n", probe.Down(""), probe.Up(1))

	assert.Len(t, fake.Signals, 1, "second transition within the cooldown window must not reload again")
}

func TestSeed_WritesPlaceholdersExceptOwnAddress(t *testing.T) {
	dir := t.TempDir()
	fake := runtime.NewFake()
	r := New(dir, 30*time.Second, "nginx", fake)

	require.NoError(t, r.Seed(context.Background(), "monitor:8080"))

	own, err := os.ReadFile(filepath.Join(dir, "monitor.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(own), "server monitor:8080;")

	other, err := os.ReadFile(filepath.Join(dir, "dify.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(other), "server "+Placeholder+";")
}

func TestObserve_UnknownServiceKeyIsIgnored(t *testing.T) {
	dir := t.TempDir()
	fake := fakeWithNginx()
	r := New(dir, 30*time.Second, "nginx", fake)

	r.Observe(context.Background(), "unknown-service", probe.Down(""), probe.Up(1))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
