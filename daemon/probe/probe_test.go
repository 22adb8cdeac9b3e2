package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbe_Returns200AsUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewProber(time.Second)
	status := p.Probe(context.Background(), server.URL)
	assert.True(t, status.IsUp())
	assert.GreaterOrEqual(t, status.ResponseTimeMs(), int64(0))
}

func TestProbe_Non200StatusIsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	p := NewProber(time.Second)
	status := p.Probe(context.Background(), server.URL)
	assert.True(t, status.IsDown(), "a non-200 2xx must still be Down, not Up")
	assert.Equal(t, "HTTP 202", status.Reason())
}

func TestProbe_ConnectionFailureIsDown(t *testing.T) {
	p := NewProber(200 * time.Millisecond)
	status := p.Probe(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.True(t, status.IsDown())
	assert.NotEmpty(t, status.Reason())
}

func TestProbe_TimeoutIsDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := NewProber(10 * time.Millisecond)
	status := p.Probe(context.Background(), server.URL)
	assert.True(t, status.IsDown())
}
