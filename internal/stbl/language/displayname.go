package language

import (
	"fmt"
	"strings"
	"unicode"
)

// DisplayName holds the separator variants of a language identifier.
type DisplayName struct {
	Normal      string
	Spaced      string
	Underscored string
	Hyphenated  string
}

// NameStyle selects one DisplayName variant.
type NameStyle int

const (
	Normal NameStyle = iota
	Spaced
	Underscored
	Hyphenated
)

var styleNames = [...]string{
	Normal:      "Normal",
	Spaced:      "Spaced",
	Underscored: "Underscored",
	Hyphenated:  "Hyphenated",
}

func (s NameStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("NameStyle(%d)", int(s))
	}
	return styleNames[s]
}

// ParseNameStyle resolves a style name, ignoring case.
func ParseNameStyle(text string) (NameStyle, bool) {
	for i, name := range styleNames {
		if strings.EqualFold(name, strings.TrimSpace(text)) {
			return NameStyle(i), true
		}
	}
	return Normal, false
}

// Format returns the variant selected by style. Unknown styles fall back to
// Normal.
func (d DisplayName) Format(style NameStyle) string {
	switch style {
	case Spaced:
		return d.Spaced
	case Underscored:
		return d.Underscored
	case Hyphenated:
		return d.Hyphenated
	default:
		return d.Normal
	}
}

// DisplayName derives the name variants from the identifier:
// ChineseSimplified becomes "Chinese Simplified", "Chinese_Simplified" and
// "Chinese-Simplified".
func (l Language) DisplayName() DisplayName {
	identifier := l.String()
	return DisplayName{
		Normal:      identifier,
		Spaced:      separate(identifier, ' '),
		Underscored: separate(identifier, '_'),
		Hyphenated:  separate(identifier, '-'),
	}
}

// separate inserts sep before every upper-case letter that follows a word
// character.
func separate(identifier string, sep rune) string {
	var b strings.Builder
	b.Grow(len(identifier) + 4)
	prev := rune(-1)
	for _, r := range identifier {
		if unicode.IsUpper(r) && prev >= 0 && isWordRune(prev) {
			b.WriteRune(sep)
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
