package domain

import "time"

// Config holds the monitor daemon's own configuration. It is distinct from
// the Service Registry, which has its own three-tier loading order and is
// not touched by viper.
type Config struct {
	Version    string           `json:"version"`
	HTTPServer HTTPConfig       `json:"http_server"`
	Auth       AuthConfig       `json:"auth"`
	Collection CollectionConfig `json:"collection"`
	Reconciler ReconcilerConfig `json:"reconciler"`
	Logging    LogConfig        `json:"logging"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Host    string `json:"host"`
}

// AuthConfig holds the basic-auth gate on the template views.
type AuthConfig struct {
	Enabled          bool   `json:"enabled"`
	Username         string `json:"username,omitempty"`
	Password         string `json:"password,omitempty"`
	UsernameSecret   string `json:"username_secret,omitempty"`
	PasswordSecret   string `json:"password_secret,omitempty"`
	SecretsDir       string `json:"secrets_dir,omitempty"`
}

// CollectionConfig controls the Collection Scheduler and History Store.
type CollectionConfig struct {
	TickInterval time.Duration `json:"tick_interval"`
	HistorySize  int           `json:"history_size"`
	ProbeTimeout time.Duration `json:"probe_timeout"`
}

// ReconcilerConfig controls nginx upstream reconciliation.
type ReconcilerConfig struct {
	Enabled         bool          `json:"enabled"`
	UpstreamDir     string        `json:"upstream_dir"`
	ReloadCooldown  time.Duration `json:"reload_cooldown"`
	NginxContainer  string        `json:"nginx_container"`
	DockerHost      string        `json:"docker_host"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	MaxSize    int    `json:"max_size"`
	MaxBackups int    `json:"max_backups"`
	MaxAge     int    `json:"max_age"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Version: "unknown",
		HTTPServer: HTTPConfig{
			Enabled: true,
			Port:    8080,
			Host:    "0.0.0.0",
		},
		Auth: AuthConfig{
			Enabled:    false,
			SecretsDir: "/run/secrets",
		},
		Collection: CollectionConfig{
			TickInterval: 60 * time.Second,
			HistorySize:  100,
			ProbeTimeout: 5 * time.Second,
		},
		Reconciler: ReconcilerConfig{
			Enabled:        true,
			UpstreamDir:    "/etc/nginx/upstreams",
			ReloadCooldown: 30 * time.Second,
			NginxContainer: "nginx",
			DockerHost:     "unix:///var/run/docker.sock",
		},
		Logging: LogConfig{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 0,
			MaxAge:     0,
		},
	}
}
