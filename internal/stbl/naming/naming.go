// Package naming renders per-language output file names from a table's name
// template.
//
// Templates use composite placeholders: "{0}" inserts the language identifier,
// "{0:Spaced}", "{0:Underscored}", "{0:Hyphenated}" and "{0:Normal}" pick a
// display name variant, and "{{" and "}}" are literal braces.
package naming

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
)

// ErrInvalidNameTemplate matches template parse failures.
var ErrInvalidNameTemplate = apperrors.New(apperrors.CodeInvalidNameTemplate, "invalid name template")

type segment struct {
	literal     string
	placeholder bool
	style       language.NameStyle
}

// Template is a parsed name template.
type Template struct {
	source   string
	segments []segment
}

// Parse parses template.
func Parse(template string) (Template, error) {
	var (
		segments []segment
		literal  strings.Builder
	)
	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return Template{}, invalid(template, i, "unclosed placeholder")
			}
			style, err := parsePlaceholder(template[i+1 : i+1+end])
			if err != nil {
				return Template{}, invalid(template, i, err.Error())
			}
			flush()
			segments = append(segments, segment{placeholder: true, style: style})
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return Template{}, invalid(template, i, "unmatched closing brace")
		default:
			literal.WriteByte(c)
		}
	}
	flush()
	return Template{source: template, segments: segments}, nil
}

func parsePlaceholder(body string) (language.NameStyle, error) {
	index, format, hasFormat := strings.Cut(body, ":")
	if strings.TrimSpace(index) != "0" {
		return language.Normal, fmt.Errorf("placeholder %q must reference argument 0", body)
	}
	if !hasFormat {
		return language.Normal, nil
	}
	style, ok := language.ParseNameStyle(format)
	if !ok {
		return language.Normal, fmt.Errorf("unknown name style %q", format)
	}
	return style, nil
}

// String returns the template source.
func (t Template) String() string {
	return t.source
}

// HasPlaceholder reports whether rendering depends on the language.
func (t Template) HasPlaceholder() bool {
	for _, seg := range t.segments {
		if seg.placeholder {
			return true
		}
	}
	return false
}

// Render substitutes the display name of l.
func (t Template) Render(l language.Language) string {
	var b strings.Builder
	name := l.DisplayName()
	for _, seg := range t.segments {
		if seg.placeholder {
			b.WriteString(name.Format(seg.style))
			continue
		}
		b.WriteString(seg.literal)
	}
	return b.String()
}

// FileName renders the template for l and appends ext.
func FileName(t Template, l language.Language, ext string) string {
	return t.Render(l) + "." + strings.TrimPrefix(ext, ".")
}

// CheckDistinct verifies every language in langs renders to a different name.
func CheckDistinct(t Template, langs []language.Language) error {
	seen := make(map[string]language.Language, len(langs))
	for _, l := range langs {
		name := t.Render(l)
		if prev, ok := seen[name]; ok {
			return apperrors.WithMetadata(
				apperrors.CodeInvalidNameTemplate,
				fmt.Sprintf("template %q renders %s and %s to the same name %q", t.source, prev, l, name),
				map[string]string{"template": t.source, "name": name},
			)
		}
		seen[name] = l
	}
	return nil
}

func invalid(template string, offset int, reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidNameTemplate,
		fmt.Sprintf("name template %q at offset %d: %s", template, offset, reason),
		map[string]string{"template": template},
	)
}
