// Package stblkeys implements the stblkeys command: it assigns keys to source
// entries that have none, remembering every assignment in a SQLite registry.
package stblkeys

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/louisbranch/stblbuilder/internal/platform/cmd"
	"github.com/louisbranch/stblbuilder/internal/platform/fsutil"
	"github.com/louisbranch/stblbuilder/internal/platform/logging"
	"github.com/louisbranch/stblbuilder/internal/platform/random"
	"github.com/louisbranch/stblbuilder/internal/stbl/keygen"
	"github.com/louisbranch/stblbuilder/internal/stbl/keystore"
	keystoresqlite "github.com/louisbranch/stblbuilder/internal/stbl/keystore/sqlite"
	"github.com/louisbranch/stblbuilder/internal/stbl/source"
)

// StdoutOutput writes the updated source to the command output.
const StdoutOutput = "-"

// Config holds configuration for a key assignment run.
type Config struct {
	Source string
	DBPath string `env:"STBL_KEYS_DB"`
	Seed   int64  `env:"STBL_KEYS_SEED"`
	Output string
	logging.Config
}

// ParseConfig loads env values and then flags. Flags are bound before the
// environment is read, so only flags given on the command line override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{
		DBPath: filepath.Join("data", "stbl-keys.db"),
		Output: StdoutOutput,
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "key registry database path")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducible keys (0 = random)")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "where to write the updated source (- for stdout)")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "usage: %s [flags] SOURCE\n\nAssigns keys to entries whose key is 0.\n\nflags:\n", fs.Name())
		fs.PrintDefaults()
	}
	if err := cmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}

	switch fs.NArg() {
	case 0:
		return Config{}, errors.New("source path is required")
	case 1:
		cfg.Source = fs.Arg(0)
	default:
		return Config{}, fmt.Errorf("expected one source path, got %d", fs.NArg())
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db is required")
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return Config{}, errors.New("o is required")
	}
	return cfg, nil
}

// Run assigns missing keys and writes the updated source. When the source
// goes to a file, a summary is written to out instead.
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

	t, err := source.Parse(cfg.Source)
	if err != nil {
		return err
	}

	store, err := keystoresqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open key registry: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close key registry", zap.Error(err))
		}
	}()

	rng, seed, err := random.NewRand(cfg.Seed)
	if err != nil {
		return err
	}
	logger.Debug("key generator seeded", zap.Int64("seed", seed))

	report, err := keystore.Assign(ctx, store, keygen.New(rng), t)
	if err != nil {
		return fmt.Errorf("assign keys for %s: %w", cfg.Source, err)
	}
	for _, identifier := range report.Conflicts {
		logger.Warn("key held by another identifier in registry",
			zap.String("identifier", identifier),
			zap.String("scope", report.Scope),
		)
	}
	logger.Info("keys assigned",
		zap.String("scope", report.Scope),
		zap.Int("assigned", report.Assigned),
		zap.Int("reused", report.Reused),
		zap.Int("recorded", report.Recorded),
		zap.Int("conflicts", len(report.Conflicts)),
	)

	var buf bytes.Buffer
	if err := source.Encode(&buf, t); err != nil {
		return err
	}
	if cfg.Output == StdoutOutput {
		_, err := out.Write(buf.Bytes())
		return err
	}
	if err := fsutil.WriteFileAtomic(cfg.Output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "assigned %d, reused %d, recorded %d key(s) in %s; wrote %s\n",
		report.Assigned, report.Reused, report.Recorded, report.Scope, cfg.Output)
	return err
}
