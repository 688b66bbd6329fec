package stblbuild

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/louisbranch/stblbuilder/internal/stbl/language"
	"github.com/louisbranch/stblbuilder/internal/stbl/source"
)

const sampleSource = `<?xml version="1.0" encoding="utf-8"?>
<STBLXMLFile xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <FallbackLanguage>0</FallbackLanguage>
  <STBLGroup>0</STBLGroup>
  <STBLInstance>1</STBLInstance>
  <STBLName>Sample_{0}</STBLName>
  <BuildIdentifiers>true</BuildIdentifiers>
  <IdentifiersInstance>2</IdentifiersInstance>
  <IdentifiersName>Sample_Identifiers</IdentifiersName>
  <Entries>
    <STBLXMLEntry>
      <Identifier>GREETING</Identifier>
      <Key>12345</Key>
      <English>Hello</English>
    </STBLXMLEntry>
  </Entries>
</STBLXMLFile>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("stblbuild", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"strings.xml"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Source != "strings.xml" {
		t.Fatalf("source = %q", cfg.Source)
	}
	if cfg.TargetDir != "." || cfg.SourceInfo || cfg.Parallelism != 1 || len(cfg.Languages) != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"-t", "out", "-p", "-languages", "English,fr-FR", "-parallel", "3", "src.xml"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.TargetDir != "out" || !cfg.SourceInfo || cfg.Parallelism != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"English", "fr-FR"}, cfg.Languages); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stbl.toml", "target_dir = \"from-file\"\nsource_info = true\nparallelism = 2\nlog_level = \"debug\"\n")
	t.Setenv("STBL_TARGET_DIR", "from-env")
	t.Setenv("STBL_PARALLELISM", "5")

	cfg, err := ParseConfig(newFlagSet(), []string{"-config", path, "-parallel", "4", "src.xml"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.TargetDir != "from-env" {
		t.Fatalf("target dir = %q, want env value", cfg.TargetDir)
	}
	if !cfg.SourceInfo {
		t.Fatal("expected source info from file")
	}
	if cfg.Parallelism != 4 {
		t.Fatalf("parallelism = %d, want flag value", cfg.Parallelism)
	}
	if cfg.Level != "debug" {
		t.Fatalf("log level = %q, want file value", cfg.Level)
	}
}

func TestParseConfigFileFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "stbl.toml", "languages = [\"German\"]\n")
	t.Setenv(EnvConfigFile, path)

	cfg, err := ParseConfig(newFlagSet(), []string{"src.xml"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if diff := cmp.Diff([]string{"German"}, cfg.Languages); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("config path = %q", cfg.ConfigPath)
	}
}

func TestParseConfigErrors(t *testing.T) {
	dir := t.TempDir()
	badFile := writeFile(t, dir, "bad.toml", "unknown_key = 1\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing source", args: nil},
		{name: "too many sources", args: []string{"a.xml", "b.xml"}},
		{name: "zero parallel", args: []string{"-parallel", "0", "a.xml"}},
		{name: "unknown config key", args: []string{"-config", badFile, "a.xml"}},
		{name: "missing config file", args: []string{"-config", filepath.Join(dir, "missing.toml"), "a.xml"}},
		{name: "unknown flag", args: []string{"-x", "a.xml"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseConfig(newFlagSet(), tc.args); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	fs := flag.NewFlagSet("stblbuild", flag.ContinueOnError)
	var usage bytes.Buffer
	fs.SetOutput(&usage)
	_, err := ParseConfig(fs, []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(usage.String(), "usage: stblbuild [flags] SOURCE") {
		t.Fatalf("unexpected usage:\n%s", usage.String())
	}
}

func TestRunBuildsSelectedLanguages(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "strings.xml", sampleSource)
	target := filepath.Join(dir, "build")

	var out bytes.Buffer
	err := Run(context.Background(), Config{
		Source:      src,
		TargetDir:   target,
		SourceInfo:  true,
		Languages:   []string{"fr-FR", "English"},
		Parallelism: 2,
	}, &out, zap.NewNop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{
		"Sample_English.stbl",
		"Sample_English.stbl.sourceinfo",
		"Sample_French.stbl",
		"Sample_French.stbl.sourceinfo",
		"Sample_Identifiers.xml",
		"Sample_Identifiers.xml.sourceinfo",
	} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(target, "Sample_German.stbl")); !os.IsNotExist(err) {
		t.Fatalf("expected German to be skipped, stat err = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 output lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "table") || !strings.Contains(lines[0], language.English.String()) {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[6], "built 2 table(s), 6 file(s) from ") {
		t.Fatalf("summary = %q", lines[6])
	}
}

func TestRunMissingSource(t *testing.T) {
	err := Run(context.Background(), Config{Source: filepath.Join(t.TempDir(), "missing.xml")}, io.Discard, nil)
	if !errors.Is(err, source.ErrSourceNotFound) {
		t.Fatalf("expected source not found, got %v", err)
	}
}

func TestRunRejectsUnknownLanguage(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "strings.xml", sampleSource)
	err := Run(context.Background(), Config{Source: src, TargetDir: dir, Languages: []string{"Klingon"}}, io.Discard, nil)
	if !errors.Is(err, language.ErrInvalidLanguage) {
		t.Fatalf("expected invalid language, got %v", err)
	}
}

func TestRunRequiresSource(t *testing.T) {
	if err := Run(context.Background(), Config{}, io.Discard, nil); err == nil {
		t.Fatal("expected error")
	}
}
