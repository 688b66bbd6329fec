package table

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
)

// DefaultIdentifiersClass is the snippet class used when a source names none.
const DefaultIdentifiersClass = "NeonoceanGlobalLanguageIdentifiers"

var (
	// ErrInvalidTable matches structural table errors.
	ErrInvalidTable = apperrors.New(apperrors.CodeInvalidTable, "invalid table")
	// ErrDuplicateKey matches tables where two entries share a key.
	ErrDuplicateKey = apperrors.New(apperrors.CodeDuplicateKey, "duplicate key")
	// ErrDuplicateIdentifier matches tables where two entries share an identifier.
	ErrDuplicateIdentifier = apperrors.New(apperrors.CodeDuplicateIdentifier, "duplicate identifier")
)

// Identifiers addresses the optional identifier snippet.
type Identifiers struct {
	Build    bool
	Group    uint32
	Instance uint64
	Name     string
	Class    string
}

// ClassName returns Class, or DefaultIdentifiersClass when unset.
func (i Identifiers) ClassName() string {
	if strings.TrimSpace(i.Class) == "" {
		return DefaultIdentifiersClass
	}
	return i.Class
}

// Table is one build unit. Entry order is the on-disk order for every
// language file.
type Table struct {
	FallbackLanguage language.Language
	Group            uint32
	Instance         uint64
	NameTemplate     string
	Entries          []*Entry
	Identifiers      Identifiers
}

// Keys returns the entry keys in entry order.
func (t *Table) Keys() []uint32 {
	keys := make([]uint32, 0, len(t.Entries))
	for _, entry := range t.Entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Validate checks the table can be encoded: a valid fallback language, and
// entries with non-empty, unique identifiers and unique keys.
func (t *Table) Validate() error {
	if t == nil {
		return apperrors.New(apperrors.CodeInvalidTable, "table is required")
	}
	if !t.FallbackLanguage.Valid() {
		return invalidLanguage(t.FallbackLanguage)
	}
	identifiers := make(map[string]int, len(t.Entries))
	keys := make(map[uint32]int, len(t.Entries))
	for i, entry := range t.Entries {
		if entry == nil {
			return apperrors.WithMetadata(apperrors.CodeInvalidTable, fmt.Sprintf("entry %d is missing", i), map[string]string{"index": strconv.Itoa(i)})
		}
		if strings.TrimSpace(entry.Identifier) == "" {
			return apperrors.WithMetadata(apperrors.CodeInvalidTable, fmt.Sprintf("entry %d has no identifier", i), map[string]string{"index": strconv.Itoa(i)})
		}
		if prev, ok := identifiers[entry.Identifier]; ok {
			return apperrors.WithMetadata(
				apperrors.CodeDuplicateIdentifier,
				fmt.Sprintf("identifier %q used by entries %d and %d", entry.Identifier, prev, i),
				map[string]string{"identifier": entry.Identifier},
			)
		}
		identifiers[entry.Identifier] = i
		if prev, ok := keys[entry.Key]; ok {
			return apperrors.WithMetadata(
				apperrors.CodeDuplicateKey,
				fmt.Sprintf("key %d used by %q and %q", entry.Key, t.Entries[prev].Identifier, entry.Identifier),
				map[string]string{"key": strconv.FormatUint(uint64(entry.Key), 10), "identifier": entry.Identifier},
			)
		}
		keys[entry.Key] = i
	}
	if t.Identifiers.Build && strings.TrimSpace(t.Identifiers.Name) == "" {
		return apperrors.New(apperrors.CodeInvalidTable, "identifiers name is required when building identifiers")
	}
	return nil
}

func invalidLanguage(l language.Language) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidLanguage,
		fmt.Sprintf("invalid language code %d", uint8(l)),
		map[string]string{"language": strconv.Itoa(int(l))},
	)
}
