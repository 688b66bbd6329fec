// Package sourceinfo writes the metadata sidecars that sit next to built
// tables and snippets.
package sourceinfo

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/louisbranch/stblbuilder/internal/stbl/language"
	"github.com/louisbranch/stblbuilder/internal/stbl/table"
)

const (
	// Extension is appended to the described file's path.
	Extension = "sourceinfo"
	// TableTypeID identifies string table resources.
	TableTypeID uint32 = 0x220557DA
	// SnippetTypeID identifies snippet resources.
	SnippetTypeID uint32 = 0x7DF2169C
)

// Record describes one built resource.
type Record struct {
	XMLName    xml.Name `xml:"SourceInfo"`
	Name       string   `xml:"Name"`
	TypeID     uint32   `xml:"TypeID"`
	GroupID    uint32   `xml:"GroupID"`
	InstanceID uint64   `xml:"InstanceID"`
}

// Path returns the sidecar path for file.
func Path(file string) string {
	return file + "." + Extension
}

// LanguageInstance replaces the top byte of base with the language code.
func LanguageInstance(base uint64, l language.Language) uint64 {
	return base&0x00FFFFFFFFFFFFFF | uint64(l)<<56
}

// ForTable describes the table file built for l under name.
func ForTable(t *table.Table, l language.Language, name string) Record {
	return Record{
		Name:       name,
		TypeID:     TableTypeID,
		GroupID:    t.Group,
		InstanceID: LanguageInstance(t.Instance, l),
	}
}

// ForSnippet describes the identifiers snippet of t.
func ForSnippet(t *table.Table) Record {
	return Record{
		Name:       t.Identifiers.Name,
		TypeID:     SnippetTypeID,
		GroupID:    t.Identifiers.Group,
		InstanceID: t.Identifiers.Instance,
	}
}

// Marshal encodes r as an indented XML document.
func Marshal(r Record) ([]byte, error) {
	body, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal source info %q: %w", r.Name, err)
	}
	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body))
	buf.WriteString(xml.Header)
	buf.Write(body)
	return buf.Bytes(), nil
}
