// Package build turns a string table into its per-language binary files, the
// optional identifier snippet, and their source-info sidecars.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
	"github.com/louisbranch/stblbuilder/internal/platform/fsutil"
	"github.com/louisbranch/stblbuilder/internal/platform/logging"
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
	"github.com/louisbranch/stblbuilder/internal/stbl/naming"
	"github.com/louisbranch/stblbuilder/internal/stbl/snippet"
	"github.com/louisbranch/stblbuilder/internal/stbl/sourceinfo"
	"github.com/louisbranch/stblbuilder/internal/stbl/stblfile"
	"github.com/louisbranch/stblbuilder/internal/stbl/table"
)

const tracerName = "github.com/louisbranch/stblbuilder/internal/stbl/build"

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Kind classifies a written file.
type Kind string

const (
	KindTable      Kind = "table"
	KindSnippet    Kind = "snippet"
	KindSourceInfo Kind = "sourceinfo"
)

// Options controls a build.
type Options struct {
	// TargetDir receives every output file. Defaults to the working directory.
	TargetDir string
	// SourceInfo writes a sidecar next to every table and snippet.
	SourceInfo bool
	// Languages restricts the tables built. Defaults to every language.
	Languages []language.Language
	// Parallelism is the number of languages encoded at once. Values below
	// two build sequentially.
	Parallelism int
	Logger      *zap.Logger
}

// File is one written output. Language is only meaningful for tables and
// their sidecars.
type File struct {
	Path     string
	Kind     Kind
	Language language.Language
	Size     int
}

// Result lists the written files in catalog order, snippet last.
type Result struct {
	BuildID string
	Files   []File
}

// Run validates t and writes its outputs. The first failure aborts the build.
func Run(ctx context.Context, t *table.Table, opts Options) (result Result, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		return Result{}, apperrors.New(apperrors.CodeInvalidTable, "table is required")
	}

	buildID := uuid.NewString()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "stbl.build", trace.WithAttributes(
		attribute.String("stbl.build_id", buildID),
		attribute.Int("stbl.entries", len(t.Entries)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger := logging.OrNop(opts.Logger).With(zap.String("build_id", buildID))

	if err := t.Validate(); err != nil {
		return Result{}, err
	}
	langs, err := selectLanguages(opts.Languages)
	if err != nil {
		return Result{}, err
	}
	tmpl, err := naming.Parse(t.NameTemplate)
	if err != nil {
		return Result{}, err
	}
	if err := naming.CheckDistinct(tmpl, langs); err != nil {
		return Result{}, err
	}

	dir := strings.TrimSpace(opts.TargetDir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return Result{}, fmt.Errorf("create target directory %s: %w", dir, err)
	}

	b := builder{
		table:      t,
		template:   tmpl,
		dir:        dir,
		sourceInfo: opts.SourceInfo,
		logger:     logger,
	}

	perLanguage := make([][]File, len(langs))
	limit := opts.Parallelism
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, l := range langs {
		i, l := i, l
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files, err := b.writeLanguage(gctx, l)
			if err != nil {
				return err
			}
			perLanguage[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	result = Result{BuildID: buildID}
	for _, files := range perLanguage {
		result.Files = append(result.Files, files...)
	}

	if t.Identifiers.Build {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		files, err := b.writeSnippet(ctx)
		if err != nil {
			return Result{}, err
		}
		result.Files = append(result.Files, files...)
	}

	logger.Info("build complete",
		zap.Int("languages", len(langs)),
		zap.Int("files", len(result.Files)),
		zap.String("target_dir", dir),
	)
	return result, nil
}

type builder struct {
	table      *table.Table
	template   naming.Template
	dir        string
	sourceInfo bool
	logger     *zap.Logger
}

func (b builder) writeLanguage(ctx context.Context, l language.Language) (files []File, err error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "stbl.write_table", trace.WithAttributes(
		attribute.String("stbl.language", l.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	data, err := stblfile.Marshal(b.table.Resolve(l))
	if err != nil {
		return nil, fmt.Errorf("encode %s table: %w", l, err)
	}
	name := b.template.Render(l)
	path := filepath.Join(b.dir, naming.FileName(b.template, l, stblfile.Extension))
	if err := fsutil.WriteFileAtomic(path, data, filePerm); err != nil {
		return nil, err
	}
	b.logger.Debug("wrote table",
		zap.Stringer("language", l),
		zap.String("path", path),
		zap.Int("bytes", len(data)),
	)
	files = append(files, File{Path: path, Kind: KindTable, Language: l, Size: len(data)})

	if b.sourceInfo {
		info, err := b.writeSourceInfo(path, sourceinfo.ForTable(b.table, l, name))
		if err != nil {
			return nil, err
		}
		info.Language = l
		files = append(files, info)
	}
	return files, nil
}

func (b builder) writeSnippet(ctx context.Context) (files []File, err error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "stbl.write_snippet")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	data, err := snippet.Marshal(b.table)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(b.dir, snippet.FileName(b.table))
	if err := fsutil.WriteFileAtomic(path, data, filePerm); err != nil {
		return nil, err
	}
	b.logger.Debug("wrote identifiers snippet",
		zap.String("path", path),
		zap.Int("entries", len(b.table.Entries)),
	)
	files = append(files, File{Path: path, Kind: KindSnippet, Size: len(data)})

	if b.sourceInfo {
		info, err := b.writeSourceInfo(path, sourceinfo.ForSnippet(b.table))
		if err != nil {
			return nil, err
		}
		files = append(files, info)
	}
	return files, nil
}

func (b builder) writeSourceInfo(described string, record sourceinfo.Record) (File, error) {
	data, err := sourceinfo.Marshal(record)
	if err != nil {
		return File{}, err
	}
	path := sourceinfo.Path(described)
	if err := fsutil.WriteFileAtomic(path, data, filePerm); err != nil {
		return File{}, err
	}
	return File{Path: path, Kind: KindSourceInfo, Size: len(data)}, nil
}

// selectLanguages returns the requested languages deduplicated in code order.
func selectLanguages(requested []language.Language) ([]language.Language, error) {
	if len(requested) == 0 {
		return language.All(), nil
	}
	seen := make(map[language.Language]bool, len(requested))
	for _, l := range requested {
		if !l.Valid() {
			_, err := language.FromCode(int(l))
			return nil, err
		}
		seen[l] = true
	}
	out := make([]language.Language, 0, len(seen))
	for _, l := range language.All() {
		if seen[l] {
			out = append(out, l)
		}
	}
	return out, nil
}
