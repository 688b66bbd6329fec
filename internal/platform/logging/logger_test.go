package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsToInfoConsole(t *testing.T) {
	logger, err := New(Config{})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("expected info level enabled")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level disabled by default")
	}
}

func TestNewHonoursLevelAndFormat(t *testing.T) {
	logger, err := New(Config{Level: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("expected debug level enabled")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected invalid level error")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Fatal("expected invalid format error")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected no-op logger")
	}
}
