// Command stblbuild builds per-language binary string tables from an XML
// authoring source.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/louisbranch/stblbuilder/internal/platform/cmd"
	"github.com/louisbranch/stblbuilder/internal/platform/config"
	"github.com/louisbranch/stblbuilder/internal/platform/logging"
	"github.com/louisbranch/stblbuilder/internal/tools/stblbuild"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf("Error: %v", err)
	}
	cfg, err := stblbuild.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	logger, err := logging.New(cfg.Config)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = cmd.RunWithTelemetry(ctx, cmd.ToolBuild, func(ctx context.Context) error {
		return stblbuild.Run(ctx, cfg, os.Stdout, logger)
	})
	if err != nil {
		_ = logger.Sync()
		config.Exitf("Error: %v", err)
	}
}
