// Package table models a multilingual string table and resolves the text
// written for each language.
package table

import (
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
)

// Entry is one localizable string. A language missing from the text map has
// no translation; an empty string is a provided, empty translation.
type Entry struct {
	Identifier string
	Key        uint32
	texts      map[language.Language]string
}

// NewEntry returns an entry without any translations.
func NewEntry(identifier string, key uint32) *Entry {
	return &Entry{Identifier: identifier, Key: key}
}

// Text returns the translation for l and whether one was provided.
func (e *Entry) Text(l language.Language) (string, bool) {
	if e == nil || e.texts == nil {
		return "", false
	}
	text, ok := e.texts[l]
	return text, ok
}

// HasText reports whether a translation exists for l.
func (e *Entry) HasText(l language.Language) bool {
	_, ok := e.Text(l)
	return ok
}

// SetText stores the translation for l.
func (e *Entry) SetText(l language.Language, text string) error {
	if !l.Valid() {
		return invalidLanguage(l)
	}
	if e.texts == nil {
		e.texts = make(map[language.Language]string)
	}
	e.texts[l] = text
	return nil
}

// ClearText removes the translation for l.
func (e *Entry) ClearText(l language.Language) error {
	if !l.Valid() {
		return invalidLanguage(l)
	}
	delete(e.texts, l)
	return nil
}

// TextByIdentifier looks a translation up by canonical language identifier.
func (e *Entry) TextByIdentifier(identifier string) (string, bool, error) {
	l, err := language.Parse(identifier)
	if err != nil {
		return "", false, err
	}
	text, ok := e.Text(l)
	return text, ok, nil
}

// Languages returns the languages with a translation, in code order.
func (e *Entry) Languages() []language.Language {
	var out []language.Language
	for _, l := range language.All() {
		if e.HasText(l) {
			out = append(out, l)
		}
	}
	return out
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	clone := &Entry{Identifier: e.Identifier, Key: e.Key}
	if len(e.texts) > 0 {
		clone.texts = make(map[language.Language]string, len(e.texts))
		for l, text := range e.texts {
			clone.texts[l] = text
		}
	}
	return clone
}
