// Package stblbuild implements the stblbuild command: it reads one authoring
// source and writes the per-language string tables.
package stblbuild

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/stblbuilder/internal/platform/cmd"
	"github.com/louisbranch/stblbuilder/internal/platform/config"
	"github.com/louisbranch/stblbuilder/internal/platform/logging"
	"github.com/louisbranch/stblbuilder/internal/stbl/build"
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
	"github.com/louisbranch/stblbuilder/internal/stbl/source"
)

// EnvConfigFile names a TOML config file used when -config is not given.
const EnvConfigFile = "STBL_CONFIG"

// Config holds configuration for a build run.
type Config struct {
	ConfigPath  string   `toml:"-"`
	Source      string   `toml:"-"`
	TargetDir   string   `env:"STBL_TARGET_DIR" toml:"target_dir"`
	SourceInfo  bool     `env:"STBL_SOURCE_INFO" toml:"source_info"`
	Languages   []string `env:"STBL_LANGUAGES" toml:"languages"`
	Parallelism int      `env:"STBL_PARALLELISM" toml:"parallelism"`
	logging.Config
}

// ParseConfig resolves configuration from defaults, the TOML config file, the
// environment and flags, each overriding the previous one.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{TargetDir: ".", Parallelism: 1}

	var (
		flagCfg   Config
		languages string
	)
	fs.StringVar(&flagCfg.ConfigPath, "config", "", "TOML config file (env "+EnvConfigFile+")")
	fs.StringVar(&flagCfg.TargetDir, "t", cfg.TargetDir, "target directory for built files")
	fs.BoolVar(&flagCfg.SourceInfo, "p", false, "write a .sourceinfo file next to every built file")
	fs.StringVar(&languages, "languages", "", "comma separated languages or BCP-47 tags to build (default: all)")
	fs.IntVar(&flagCfg.Parallelism, "parallel", cfg.Parallelism, "number of languages encoded at once")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "usage: %s [flags] SOURCE\n\nBuilds one string table per language from an XML source.\n\nflags:\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := cmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	explicit := cmd.ExplicitFlags(fs)

	cfg.ConfigPath = strings.TrimSpace(flagCfg.ConfigPath)
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = strings.TrimSpace(os.Getenv(EnvConfigFile))
	}
	if cfg.ConfigPath != "" {
		if err := config.LoadFile(cfg.ConfigPath, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	if explicit["t"] {
		cfg.TargetDir = flagCfg.TargetDir
	}
	if explicit["p"] {
		cfg.SourceInfo = flagCfg.SourceInfo
	}
	if explicit["languages"] {
		cfg.Languages = strings.Split(languages, ",")
	}
	if explicit["parallel"] {
		cfg.Parallelism = flagCfg.Parallelism
	}

	switch fs.NArg() {
	case 0:
		return Config{}, errors.New("source path is required")
	case 1:
		cfg.Source = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected one source path, got %d", fs.NArg())
	}
	if cfg.Parallelism < 1 {
		return Config{}, errors.New("parallel must be at least 1")
	}
	return cfg, nil
}

// Run builds the source named by cfg and reports each written file to out.
func Run(ctx context.Context, cfg Config, out io.Writer, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if out == nil {
		out = io.Discard
	}
	logger = logging.OrNop(logger)

	if strings.TrimSpace(cfg.Source) == "" {
		return errors.New("source path is required")
	}

	var langs []language.Language
	if len(cfg.Languages) > 0 {
		parsed, err := language.ParseList(strings.Join(cfg.Languages, ","))
		if err != nil {
			return fmt.Errorf("languages: %w", err)
		}
		langs = parsed
	}

	t, err := source.Parse(cfg.Source)
	if err != nil {
		return err
	}
	logger.Info("loaded source",
		zap.String("source", cfg.Source),
		zap.Int("entries", len(t.Entries)),
		zap.Stringer("fallback", t.FallbackLanguage),
	)

	result, err := build.Run(ctx, t, build.Options{
		TargetDir:   cfg.TargetDir,
		SourceInfo:  cfg.SourceInfo,
		Languages:   langs,
		Parallelism: cfg.Parallelism,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build %s: %w", cfg.Source, err)
	}

	tables := 0
	for _, file := range result.Files {
		switch file.Kind {
		case build.KindTable:
			tables++
			if _, err := fmt.Fprintf(out, "%-10s %-18s %s\n", file.Kind, file.Language, file.Path); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(out, "%-10s %-18s %s\n", file.Kind, "", file.Path); err != nil {
				return err
			}
		}
	}
	_, err = fmt.Fprintf(out, "built %d table(s), %d file(s) from %s (build %s)\n", tables, len(result.Files), cfg.Source, result.BuildID)
	return err
}
