// Command stblkeys assigns stable keys to the entries of an XML authoring
// source.
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
	"github.com/louisbranch/stblbuilder/internal/tools/stblkeys"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf("Error: %v", err)
	}
	cfg, err := stblkeys.ParseConfig(flag.CommandLine, os.Args[1:])
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

	err = cmd.RunWithTelemetry(ctx, cmd.ToolKeys, func(ctx context.Context) error {
		return stblkeys.Run(ctx, cfg, os.Stdout, logger)
	})
	if err != nil {
		_ = logger.Sync()
		config.Exitf("Error: %v", err)
	}
}
