// Package snippet writes the identifier to key mapping of a table as an XML
// snippet resource.
package snippet

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/louisbranch/stblbuilder/internal/stbl/table"
)

// Extension is the snippet file extension.
const Extension = "xml"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five XML special characters with entities.
func Escape(text string) string {
	return escaper.Replace(text)
}

// FileName returns the snippet file name for t.
func FileName(t *table.Table) string {
	return t.Identifiers.Name + "." + Extension
}

// Encode writes one key/value pair per entry, in entry order. The document
// has no trailing newline.
func Encode(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	fmt.Fprintf(bw, "<I n=\"%s\" s=\"%s\" i=\"snippet\" m=\"snippets\" c=\"%s\">\n",
		Escape(t.Identifiers.Name),
		strconv.FormatUint(t.Identifiers.Instance, 10),
		Escape(t.Identifiers.ClassName()),
	)
	bw.WriteString("\t<L n=\"value\">\n")
	for _, entry := range t.Entries {
		bw.WriteString("\t\t<U>\n")
		fmt.Fprintf(bw, "\t\t\t<T n=\"key\">%s</T>\n", Escape(entry.Identifier))
		fmt.Fprintf(bw, "\t\t\t<T n=\"value\">%s</T>\n", strconv.FormatUint(uint64(entry.Key), 10))
		bw.WriteString("\t\t</U>\n")
	}
	bw.WriteString("\t</L>\n</I>")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write identifiers snippet: %w", err)
	}
	return nil
}

// Marshal returns the encoded snippet for t.
func Marshal(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
