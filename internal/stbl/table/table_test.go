package table

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
)

func TestValidateAcceptsUniqueEntries(t *testing.T) {
	tbl := &Table{
		FallbackLanguage: language.English,
		Entries:          []*Entry{NewEntry("A", 1), NewEntry("B", 2)},
	}
	if err := tbl.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateRejectsDuplicateKey(t *testing.T) {
	tbl := &Table{Entries: []*Entry{NewEntry("A", 5), NewEntry("B", 5)}}
	err := tbl.Validate()
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected duplicate key, got %v", err)
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) || domainErr.Metadata["identifier"] != "B" {
		t.Fatalf("expected metadata naming the second entry, got %+v", domainErr)
	}
}

func TestValidateRejectsDuplicateIdentifier(t *testing.T) {
	tbl := &Table{Entries: []*Entry{NewEntry("A", 1), NewEntry("A", 2)}}
	if err := tbl.Validate(); !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("expected duplicate identifier, got %v", err)
	}
}

func TestValidateRejectsBlankIdentifier(t *testing.T) {
	tbl := &Table{Entries: []*Entry{NewEntry("  ", 1)}}
	if err := tbl.Validate(); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected invalid table, got %v", err)
	}
}

func TestValidateRejectsNilEntry(t *testing.T) {
	tbl := &Table{Entries: []*Entry{nil}}
	if err := tbl.Validate(); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected invalid table, got %v", err)
	}
}

func TestValidateRejectsInvalidFallback(t *testing.T) {
	tbl := &Table{FallbackLanguage: language.Language(30)}
	if err := tbl.Validate(); !errors.Is(err, language.ErrInvalidLanguage) {
		t.Fatalf("expected invalid language, got %v", err)
	}
}

func TestValidateRequiresIdentifiersName(t *testing.T) {
	tbl := &Table{Identifiers: Identifiers{Build: true}}
	if err := tbl.Validate(); !errors.Is(err, ErrInvalidTable) {
		t.Fatalf("expected invalid table, got %v", err)
	}
}

func TestIdentifiersClassName(t *testing.T) {
	if got := (Identifiers{}).ClassName(); got != DefaultIdentifiersClass {
		t.Fatalf("ClassName() = %q", got)
	}
	if got := (Identifiers{Class: "Custom"}).ClassName(); got != "Custom" {
		t.Fatalf("ClassName() = %q", got)
	}
}

func TestKeys(t *testing.T) {
	tbl := &Table{Entries: []*Entry{NewEntry("A", 3), NewEntry("B", 1)}}
	if diff := cmp.Diff([]uint32{3, 1}, tbl.Keys()); diff != "" {
		t.Fatalf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
