// Package config loads the monitor daemon's own configuration (distinct
// from the Service Registry, which has its own three-tier loading order)
// via viper, grounded on the teacher's ViperConfigService: a search path
// of well-known directories, a MONITOR_-prefixed environment override for
// every key, and an fsnotify watch that logs config file changes. The
// daemon loads its Config once at start-up; a changed file does not alter
// the running daemon's settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/steelburn/ai-stack-build/daemon/domain"
	"github.com/steelburn/ai-stack-build/daemon/logger"
)

// Service wraps a viper instance pre-loaded with this daemon's defaults,
// config-file search path, and environment overrides.
type Service struct {
	viper        *viper.Viper
	configPaths  []string
	watchEnabled bool
}

// New returns a Service ready to Load. watchEnabled controls whether a
// changed config file on disk triggers onConfigChange; disable it in
// tests so they are not sensitive to fsnotify timing.
func New(watchEnabled bool) *Service {
	v := viper.New()

	s := &Service{
		viper:        v,
		configPaths:  []string{".", "/etc/monitor", "/usr/local/etc/monitor", "$HOME/.monitor"},
		watchEnabled: watchEnabled,
	}

	s.setupViper()
	return s
}

func (s *Service) setupViper() {
	s.viper.SetConfigName("monitor")
	s.viper.SetConfigType("yaml")
	for _, path := range s.configPaths {
		s.viper.AddConfigPath(path)
	}

	s.viper.SetEnvPrefix("MONITOR")
	s.viper.AutomaticEnv()
	s.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	s.setDefaults()

	if err := s.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Info("no config file found, using defaults and environment variables")
		} else {
			logger.Warn("error reading config file: %v", err)
		}
	} else {
		logger.Info("using config file: %s", s.viper.ConfigFileUsed())
	}

	if s.watchEnabled {
		s.viper.WatchConfig()
		s.viper.OnConfigChange(func(e fsnotify.Event) {
			logger.Info("config file changed: %s", e.Name)
		})
	}
}

func (s *Service) setDefaults() {
	defaults := domain.DefaultConfig()

	s.viper.SetDefault("version", defaults.Version)

	s.viper.SetDefault("http_server.enabled", defaults.HTTPServer.Enabled)
	s.viper.SetDefault("http_server.port", defaults.HTTPServer.Port)
	s.viper.SetDefault("http_server.host", defaults.HTTPServer.Host)

	s.viper.SetDefault("auth.enabled", defaults.Auth.Enabled)
	s.viper.SetDefault("auth.username", defaults.Auth.Username)
	s.viper.SetDefault("auth.password", defaults.Auth.Password)
	s.viper.SetDefault("auth.username_secret", defaults.Auth.UsernameSecret)
	s.viper.SetDefault("auth.password_secret", defaults.Auth.PasswordSecret)
	s.viper.SetDefault("auth.secrets_dir", defaults.Auth.SecretsDir)

	s.viper.SetDefault("collection.tick_interval", defaults.Collection.TickInterval)
	s.viper.SetDefault("collection.history_size", defaults.Collection.HistorySize)
	s.viper.SetDefault("collection.probe_timeout", defaults.Collection.ProbeTimeout)

	s.viper.SetDefault("reconciler.enabled", defaults.Reconciler.Enabled)
	s.viper.SetDefault("reconciler.upstream_dir", defaults.Reconciler.UpstreamDir)
	s.viper.SetDefault("reconciler.reload_cooldown", defaults.Reconciler.ReloadCooldown)
	s.viper.SetDefault("reconciler.nginx_container", defaults.Reconciler.NginxContainer)
	s.viper.SetDefault("reconciler.docker_host", defaults.Reconciler.DockerHost)

	s.viper.SetDefault("logging.level", defaults.Logging.Level)
	s.viper.SetDefault("logging.max_size", defaults.Logging.MaxSize)
	s.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	s.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
}

// Load materializes a domain.Config from the loaded viper state.
func (s *Service) Load() domain.Config {
	return domain.Config{
		Version: s.viper.GetString("version"),
		HTTPServer: domain.HTTPConfig{
			Enabled: s.viper.GetBool("http_server.enabled"),
			Port:    s.viper.GetInt("http_server.port"),
			Host:    s.viper.GetString("http_server.host"),
		},
		Auth: domain.AuthConfig{
			Enabled:        s.viper.GetBool("auth.enabled"),
			Username:       s.viper.GetString("auth.username"),
			Password:       s.viper.GetString("auth.password"),
			UsernameSecret: s.viper.GetString("auth.username_secret"),
			PasswordSecret: s.viper.GetString("auth.password_secret"),
			SecretsDir:     s.viper.GetString("auth.secrets_dir"),
		},
		Collection: domain.CollectionConfig{
			TickInterval: s.viper.GetDuration("collection.tick_interval"),
			HistorySize:  s.viper.GetInt("collection.history_size"),
			ProbeTimeout: s.viper.GetDuration("collection.probe_timeout"),
		},
		Reconciler: domain.ReconcilerConfig{
			Enabled:        s.viper.GetBool("reconciler.enabled"),
			UpstreamDir:    s.viper.GetString("reconciler.upstream_dir"),
			ReloadCooldown: s.viper.GetDuration("reconciler.reload_cooldown"),
			NginxContainer: s.viper.GetString("reconciler.nginx_container"),
			DockerHost:     s.viper.GetString("reconciler.docker_host"),
		},
		Logging: domain.LogConfig{
			Level:      s.viper.GetString("logging.level"),
			MaxSize:    s.viper.GetInt("logging.max_size"),
			MaxBackups: s.viper.GetInt("logging.max_backups"),
			MaxAge:     s.viper.GetInt("logging.max_age"),
		},
	}
}

// Validate rejects a config with an unusable HTTP port, an unrecognized
// log level, or a collection tick interval shorter than one second.
func Validate(cfg domain.Config) error {
	if cfg.HTTPServer.Port < 1 || cfg.HTTPServer.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", cfg.HTTPServer.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Logging.Level)
	}

	if cfg.Collection.TickInterval < time.Second {
		return fmt.Errorf("collection tick interval too short: %v", cfg.Collection.TickInterval)
	}

	return nil
}

// CreateSampleConfig writes a commented YAML template for operators to
// copy into /etc/monitor/monitor.yaml, grounded on the teacher's own
// CreateSampleConfig.
func CreateSampleConfig(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(filename, []byte(sampleConfigYAML), 0644)
}

const sampleConfigYAML = `# ai-stack monitor configuration

http_server:
  enabled: true
  port: 8080
  host: "0.0.0.0"

auth:
  enabled: false
  username: ""
  password: ""
  username_secret: ""
  password_secret: ""
  secrets_dir: "/run/secrets"

collection:
  tick_interval: "60s"
  history_size: 100
  probe_timeout: "5s"

reconciler:
  enabled: true
  upstream_dir: "/etc/nginx/upstreams"
  reload_cooldown: "30s"
  nginx_container: "nginx"
  docker_host: "unix:///var/run/docker.sock"

logging:
  level: "info"
  max_size: 10
  max_backups: 0
  max_age: 0
`
