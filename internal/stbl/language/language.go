// Package language holds the fixed catalog of locales a string table is
// produced for.
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
)

// Language is a supported locale. Its numeric value is the language code
// written into table instance ids and must never be renumbered.
type Language uint8

const (
	English Language = iota
	ChineseSimplified
	ChineseTraditional
	Czech
	Danish
	Dutch
	Finnish
	French
	German
	Greek
	Hungarian
	Italian
	Japanese
	Korean
	Norwegian
	Polish
	PortuguesePortugal
	PortugueseBrazil
	Russian
	SpanishSpain
	SpanishMexico
	Swedish
	Thai
)

// Count is the number of catalog languages.
const Count = int(Thai) + 1

// ErrInvalidLanguage matches any error raised for an unknown language.
var ErrInvalidLanguage = apperrors.New(apperrors.CodeInvalidLanguage, "invalid language")

type definition struct {
	identifier string
	tag        language.Tag
}

var definitions = [Count]definition{
	English:            {"English", language.MustParse("en-US")},
	ChineseSimplified:  {"ChineseSimplified", language.MustParse("zh-CN")},
	ChineseTraditional: {"ChineseTraditional", language.MustParse("zh-TW")},
	Czech:              {"Czech", language.MustParse("cs-CZ")},
	Danish:             {"Danish", language.MustParse("da-DK")},
	Dutch:              {"Dutch", language.MustParse("nl-NL")},
	Finnish:            {"Finnish", language.MustParse("fi-FI")},
	French:             {"French", language.MustParse("fr-FR")},
	German:             {"German", language.MustParse("de-DE")},
	Greek:              {"Greek", language.MustParse("el-GR")},
	Hungarian:          {"Hungarian", language.MustParse("hu-HU")},
	Italian:            {"Italian", language.MustParse("it-IT")},
	Japanese:           {"Japanese", language.MustParse("ja-JP")},
	Korean:             {"Korean", language.MustParse("ko-KR")},
	Norwegian:          {"Norwegian", language.MustParse("nb-NO")},
	Polish:             {"Polish", language.MustParse("pl-PL")},
	PortuguesePortugal: {"PortuguesePortugal", language.MustParse("pt-PT")},
	PortugueseBrazil:   {"PortugueseBrazil", language.MustParse("pt-BR")},
	Russian:            {"Russian", language.MustParse("ru-RU")},
	SpanishSpain:       {"SpanishSpain", language.MustParse("es-ES")},
	SpanishMexico:      {"SpanishMexico", language.MustParse("es-MX")},
	Swedish:            {"Swedish", language.MustParse("sv-SE")},
	Thai:               {"Thai", language.MustParse("th-TH")},
}

var (
	byIdentifier = indexIdentifiers()
	matcher      = language.NewMatcher(Tags())
)

func indexIdentifiers() map[string]Language {
	index := make(map[string]Language, Count)
	for code, def := range definitions {
		index[strings.ToLower(def.identifier)] = Language(code)
	}
	return index
}

// All returns every language in code order.
func All() []Language {
	all := make([]Language, Count)
	for i := range all {
		all[i] = Language(i)
	}
	return all
}

// Tags returns the BCP-47 tag of every language in code order.
func Tags() []language.Tag {
	tags := make([]language.Tag, Count)
	for i, def := range definitions {
		tags[i] = def.tag
	}
	return tags
}

// Valid reports whether l is a catalog language.
func (l Language) Valid() bool {
	return int(l) < Count
}

// Code returns the numeric language code.
func (l Language) Code() int {
	return int(l)
}

// String returns the canonical identifier, e.g. "SpanishMexico".
func (l Language) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
	return definitions[l].identifier
}

// Tag returns the BCP-47 tag for l, or language.Und for invalid values.
func (l Language) Tag() language.Tag {
	if !l.Valid() {
		return language.Und
	}
	return definitions[l].tag
}

// Parse resolves a canonical identifier, ignoring case and surrounding space.
// Numeric strings are not identifiers; use FromCode for codes.
func Parse(text string) (Language, error) {
	if l, ok := byIdentifier[strings.ToLower(strings.TrimSpace(text))]; ok {
		return l, nil
	}
	return 0, invalid(text)
}

// FromCode resolves a numeric language code.
func FromCode(code int) (Language, error) {
	if code < 0 || code >= Count {
		return 0, invalid(fmt.Sprint(code))
	}
	return Language(code), nil
}

// FromTag resolves a BCP-47 tag to the closest catalog language.
func FromTag(text string) (Language, error) {
	tag, err := language.Parse(strings.TrimSpace(text))
	if err != nil {
		return 0, apperrors.WrapWithMetadata(apperrors.CodeInvalidLanguage, fmt.Sprintf("invalid language tag %q", text), map[string]string{"language": text}, err)
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No || index < 0 || index >= Count {
		return 0, invalid(text)
	}
	return Language(index), nil
}

// Lookup resolves an identifier first and a BCP-47 tag second.
func Lookup(text string) (Language, error) {
	if l, err := Parse(text); err == nil {
		return l, nil
	}
	return FromTag(text)
}

// ParseList resolves a comma separated list through Lookup. Duplicates are
// dropped and the result is in code order.
func ParseList(text string) ([]Language, error) {
	seen := make(map[Language]bool)
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, err := Lookup(part)
		if err != nil {
			return nil, err
		}
		seen[l] = true
	}
	if len(seen) == 0 {
		return nil, invalid(text)
	}
	out := make([]Language, 0, len(seen))
	for _, l := range All() {
		if seen[l] {
			out = append(out, l)
		}
	}
	return out, nil
}

func invalid(text string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidLanguage,
		fmt.Sprintf("invalid language %q", text),
		map[string]string{"language": text},
	)
}
