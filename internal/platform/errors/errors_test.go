package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeDuplicateKey, "key 7 is used twice")
	sentinel := New(CodeDuplicateKey, "duplicate key")

	if !stderrors.Is(err, sentinel) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeFieldTooLarge, "too large")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestErrorIsTraversesWrappedChain(t *testing.T) {
	inner := New(CodeInvalidLanguage, "'Klingon' is not a valid language")
	outer := Wrap(CodeSourceParseFailure, "read source", inner)
	wrapped := fmt.Errorf("build: %w", outer)

	if !stderrors.Is(wrapped, New(CodeSourceParseFailure, "")) {
		t.Fatal("expected outer code to match")
	}
	if !stderrors.Is(wrapped, New(CodeInvalidLanguage, "")) {
		t.Fatal("expected inner code to match through the chain")
	}
	if got := CodeOf(wrapped); got != CodeSourceParseFailure {
		t.Fatalf("CodeOf = %q, want %q", got, CodeSourceParseFailure)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeSourceParseFailure, "parse source", stderrors.New("unexpected EOF"))
	if got := err.Error(); got != "parse source: unexpected EOF" {
		t.Fatalf("Error() = %q", got)
	}
	if got := New(CodeUnknown, "plain").Error(); got != "plain" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestWithMetadataKeepsValues(t *testing.T) {
	err := WithMetadata(CodeFieldTooLarge, "text too long", map[string]string{"identifier": "GREETING"})
	if err.Metadata["identifier"] != "GREETING" {
		t.Fatalf("metadata = %v", err.Metadata)
	}
}

func TestCodeOfUnknown(t *testing.T) {
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf = %q, want %q", got, CodeUnknown)
	}
}
