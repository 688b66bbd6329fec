package table

import "github.com/louisbranch/stblbuilder/internal/stbl/language"

// Resolved is an entry with its final text for one language.
type Resolved struct {
	Identifier string
	Key        uint32
	Text       string
}

// ResolveText returns the target translation, else the fallback translation,
// else the identifier.
func ResolveText(entry *Entry, target, fallback language.Language) string {
	if text, ok := entry.Text(target); ok {
		return text
	}
	if text, ok := entry.Text(fallback); ok {
		return text
	}
	return entry.Identifier
}

// Resolve resolves every entry for target in entry order.
func (t *Table) Resolve(target language.Language) []Resolved {
	out := make([]Resolved, len(t.Entries))
	for i, entry := range t.Entries {
		out[i] = Resolved{
			Identifier: entry.Identifier,
			Key:        entry.Key,
			Text:       ResolveText(entry, target, t.FallbackLanguage),
		}
	}
	return out
}
