// Package source reads and writes the XML authoring source of a string table.
package source

import (
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
	"github.com/louisbranch/stblbuilder/internal/stbl/table"
)

var (
	// ErrSourceNotFound matches a missing source path.
	ErrSourceNotFound = apperrors.New(apperrors.CodeSourceNotFound, "source not found")
	// ErrSourceParseFailure matches sources that could not be turned into a table.
	ErrSourceParseFailure = apperrors.New(apperrors.CodeSourceParseFailure, "source parse failure")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse loads the source at path. A missing path is reported before any
// parsing is attempted.
func Parse(path string) (*table.Table, error) {
	meta := map[string]string{"path": path}
	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.WrapWithMetadata(apperrors.CodeSourceNotFound, fmt.Sprintf("source %s does not exist", path), meta, err)
		}
		return nil, apperrors.WrapWithMetadata(apperrors.CodeSourceParseFailure, fmt.Sprintf("stat source %s", path), meta, err)
	}
	if info.IsDir() {
		return nil, apperrors.WithMetadata(apperrors.CodeSourceParseFailure, fmt.Sprintf("source %s is a directory", path), meta)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeSourceParseFailure, fmt.Sprintf("open source %s", path), meta, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return t, nil
}

// Decode reads a source document from r.
func Decode(r io.Reader) (*table.Table, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSourceParseFailure, "decode source", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSourceParseFailure, "invalid source", validationError(err))
	}
	return doc.table()
}

func (doc document) table() (*table.Table, error) {
	fallback, err := language.FromCode(doc.FallbackLanguage)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSourceParseFailure, "fallback language", err)
	}

	t := &table.Table{
		FallbackLanguage: fallback,
		Group:            doc.STBLGroup,
		Instance:         doc.STBLInstance,
		NameTemplate:     doc.STBLName,
		Entries:          make([]*table.Entry, 0, len(doc.Entries)),
		Identifiers: table.Identifiers{
			Build:    doc.BuildIdentifiers,
			Group:    doc.IdentifiersGroup,
			Instance: doc.IdentifiersInstance,
			Name:     doc.IdentifiersName,
			Class:    doc.IdentifiersClass,
		},
	}

	for i, raw := range doc.Entries {
		e := table.NewEntry(raw.Identifier, raw.Key)
		for _, txt := range raw.Texts {
			l, err := language.Parse(txt.XMLName.Local)
			if err != nil {
				return nil, apperrors.WrapWithMetadata(
					apperrors.CodeSourceParseFailure,
					fmt.Sprintf("entry %d (%s)", i, raw.Identifier),
					map[string]string{"identifier": raw.Identifier, "element": txt.XMLName.Local},
					err,
				)
			}
			if e.HasText(l) {
				return nil, apperrors.WithMetadata(
					apperrors.CodeSourceParseFailure,
					fmt.Sprintf("entry %d (%s) repeats %s", i, raw.Identifier, l),
					map[string]string{"identifier": raw.Identifier, "element": txt.XMLName.Local},
				)
			}
			if txt.isNil() {
				continue
			}
			if err := e.SetText(l, txt.Value); err != nil {
				return nil, err
			}
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}

// Encode writes t in the source document shape. Missing translations are
// omitted.
func Encode(w io.Writer, t *table.Table) error {
	doc := document{
		FallbackLanguage:    t.FallbackLanguage.Code(),
		STBLGroup:           t.Group,
		STBLInstance:        t.Instance,
		STBLName:            t.NameTemplate,
		BuildIdentifiers:    t.Identifiers.Build,
		IdentifiersGroup:    t.Identifiers.Group,
		IdentifiersInstance: t.Identifiers.Instance,
		IdentifiersName:     t.Identifiers.Name,
		IdentifiersClass:    t.Identifiers.Class,
		Entries:             make([]entry, 0, len(t.Entries)),
	}
	for _, e := range t.Entries {
		raw := entry{Identifier: e.Identifier, Key: e.Key}
		for _, l := range e.Languages() {
			value, _ := e.Text(l)
			raw.Texts = append(raw.Texts, text{XMLName: xml.Name{Local: l.String()}, Value: value})
		}
		doc.Entries = append(doc.Entries, raw)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write source header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode source: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return stderrors.New(strings.Join(messages, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return field + " is required when " + strings.Replace(fe.Param(), " ", " is ", 1)
	default:
		return field + " is invalid"
	}
}
