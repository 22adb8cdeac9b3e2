package main

import (
	"log"

	"github.com/alecthomas/kong"
	"github.com/cskr/pubsub"

	"github.com/steelburn/ai-stack-build/daemon/cmd"
	monitorconfig "github.com/steelburn/ai-stack-build/daemon/config"
	"github.com/steelburn/ai-stack-build/daemon/domain"
	"github.com/steelburn/ai-stack-build/daemon/logger"
)

var Version string

var cli struct {
	LogsDir  string `default:"/var/log" help:"directory to store logs"`
	HTTPPort int    `default:"8080" help:"HTTP server port"`

	Boot   cmd.Boot      `cmd:"" default:"1" help:"start monitoring"`
	Config cmd.ConfigCmd `cmd:"" help:"manage configuration"`
}

func main() {
	ctx := kong.Parse(&cli)

	if err := logger.SetupFileLogger(logger.DefaultFileLoggerConfig(cli.LogsDir)); err != nil {
		log.Fatalf("failed to configure file logger: %v", err)
	}

	svc := monitorconfig.New(true)
	cfg := svc.Load()
	cfg.Version = Version

	if cli.HTTPPort != 8080 {
		cfg.HTTPServer.Port = cli.HTTPPort
	}

	if err := monitorconfig.Validate(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	err := ctx.Run(&domain.Context{
		Config: cfg,
		Hub:    pubsub.New(623),
	})
	ctx.FatalIfErrorf(err)
}
