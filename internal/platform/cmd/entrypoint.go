package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/stblbuilder/internal/platform/config"
	"github.com/louisbranch/stblbuilder/internal/platform/otel"
	"github.com/louisbranch/stblbuilder/internal/platform/timeouts"
)

// Tool identifiers for startup telemetry and CLI naming consistency.
const (
	ToolBuild = "stblbuild"
	ToolKeys  = "stblkeys"
)

// RunOptions controls shared entrypoint behavior for tool commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// Logger receives telemetry shutdown failures. Defaults to zap.L().
	Logger *zap.Logger
}

// ParseConfig loads environment values into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads values from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// ExplicitFlags returns the names of flags set on the command line.
func ExplicitFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	if fs == nil {
		return set
	}
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// RunWithTelemetry configures tracing and executes a tool run.
func RunWithTelemetry(ctx context.Context, tool string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, tool, RunOptions{}, run)
}

// RunWithTelemetryAndOptions configures tracing and executes a tool run.
func RunWithTelemetryAndOptions(ctx context.Context, tool string, options RunOptions, run func(context.Context) error) error {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return fmt.Errorf("tool name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.L()
	}
	shutdown, err := otel.Setup(ctx, tool)
	if err != nil {
		return err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = timeouts.TelemetryShutdown
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("otel shutdown", zap.String("tool", tool), zap.Error(err))
		}
	}()
	return run(ctx)
}
