package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/steelburn/ai-stack-build/daemon/domain"
)

func TestLoad_UsesDefaultsWithNoFileOrEnv(t *testing.T) {
	s := New(false)
	cfg := s.Load()

	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTPServer.Host)
	assert.Equal(t, 60*time.Second, cfg.Collection.TickInterval)
	assert.Equal(t, 100, cfg.Collection.HistorySize)
	assert.Equal(t, "nginx", cfg.Reconciler.NginxContainer)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("MONITOR_HTTP_SERVER_PORT", "9090")

	s := New(false)
	cfg := s.Load()

	assert.Equal(t, 9090, cfg.HTTPServer.Port)
}

func TestValidate_RejectsOutOfRangePort(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.HTTPServer.Port = 70000

	assert.Error(t, Validate(cfg))
}

func TestValidate_RejectsUnknownLogLevel(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Logging.Level = "verbose"

	assert.Error(t, Validate(cfg))
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(domain.DefaultConfig()))
}
