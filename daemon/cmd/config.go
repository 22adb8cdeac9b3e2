package cmd

import (
	"fmt"

	"github.com/steelburn/ai-stack-build/daemon/config"
	"github.com/steelburn/ai-stack-build/daemon/domain"
)

// ConfigCmd handles configuration management commands
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" help:"Show current configuration"`
	Set      ConfigSetCmd      `cmd:"" help:"Validate configuration values"`
	Generate ConfigGenerateCmd `cmd:"" help:"Generate a sample configuration file"`
}

// ConfigShowCmd shows the current configuration
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *domain.Context) error {
	cfg := ctx.Config

	fmt.Printf("ai-stack monitor configuration:\n")
	fmt.Printf("  Version: %s\n", cfg.Version)
	fmt.Printf("\n")
	fmt.Printf("HTTP Server:\n")
	fmt.Printf("  Enabled: %t\n", cfg.HTTPServer.Enabled)
	fmt.Printf("  Host: %s\n", cfg.HTTPServer.Host)
	fmt.Printf("  Port: %d\n", cfg.HTTPServer.Port)
	fmt.Printf("\n")
	fmt.Printf("Authentication:\n")
	fmt.Printf("  Enabled: %t\n", cfg.Auth.Enabled)
	if cfg.Auth.Username != "" {
		fmt.Printf("  Username: %s\n", cfg.Auth.Username)
	} else {
		fmt.Printf("  Username: (not set)\n")
	}
	fmt.Printf("  Secrets dir: %s\n", cfg.Auth.SecretsDir)
	fmt.Printf("\n")
	fmt.Printf("Collection:\n")
	fmt.Printf("  Tick interval: %s\n", cfg.Collection.TickInterval)
	fmt.Printf("  History size: %d\n", cfg.Collection.HistorySize)
	fmt.Printf("  Probe timeout: %s\n", cfg.Collection.ProbeTimeout)
	fmt.Printf("\n")
	fmt.Printf("Reconciler:\n")
	fmt.Printf("  Enabled: %t\n", cfg.Reconciler.Enabled)
	fmt.Printf("  Upstream dir: %s\n", cfg.Reconciler.UpstreamDir)
	fmt.Printf("  Nginx container: %s\n", cfg.Reconciler.NginxContainer)
	fmt.Printf("\n")
	fmt.Printf("Logging:\n")
	fmt.Printf("  Level: %s\n", cfg.Logging.Level)
	fmt.Printf("  Max Size: %d MB\n", cfg.Logging.MaxSize)
	fmt.Printf("  Max Backups: %d\n", cfg.Logging.MaxBackups)
	fmt.Printf("  Max Age: %d days\n", cfg.Logging.MaxAge)

	return nil
}

// ConfigSetCmd validates a proposed set of overrides against the
// configuration Service; applying them is done via monitor.yaml (or the
// matching MONITOR_ environment variable) plus a restart, since the
// daemon loads its configuration once at boot; a changed file is only
// logged, and this CLI does not write any file.
type ConfigSetCmd struct {
	HTTPEnabled *bool   `help:"Enable/disable HTTP server"`
	Port        *int    `name:"port" help:"Set HTTP server port"`
	AuthEnabled *bool   `help:"Enable/disable basic auth"`
	LogLevel    *string `help:"Set log level"`
}

func (c *ConfigSetCmd) Run(ctx *domain.Context) error {
	cfg := ctx.Config

	if c.HTTPEnabled != nil {
		cfg.HTTPServer.Enabled = *c.HTTPEnabled
	}
	if c.Port != nil {
		if *c.Port <= 0 || *c.Port > 65535 {
			return fmt.Errorf("invalid port number: %d", *c.Port)
		}
		cfg.HTTPServer.Port = *c.Port
	}
	if c.AuthEnabled != nil {
		cfg.Auth.Enabled = *c.AuthEnabled
	}
	if c.LogLevel != nil {
		cfg.Logging.Level = *c.LogLevel
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Printf("Configuration is valid. Edit monitor.yaml (or set the matching MONITOR_ environment variable) and restart the daemon to apply it:\n")
	fmt.Printf("  http_server.enabled=%t\n", cfg.HTTPServer.Enabled)
	fmt.Printf("  http_server.port=%d\n", cfg.HTTPServer.Port)
	fmt.Printf("  auth.enabled=%t\n", cfg.Auth.Enabled)
	fmt.Printf("  logging.level=%s\n", cfg.Logging.Level)
	return nil
}

// ConfigGenerateCmd writes a commented monitor.yaml template to disk.
type ConfigGenerateCmd struct {
	Output string `help:"Destination path for the sample configuration" default:"monitor.yaml"`
}

func (c *ConfigGenerateCmd) Run(ctx *domain.Context) error {
	if err := config.CreateSampleConfig(c.Output); err != nil {
		return fmt.Errorf("failed to generate configuration: %w", err)
	}

	fmt.Printf("Sample configuration written to %s\n", c.Output)
	return nil
}
