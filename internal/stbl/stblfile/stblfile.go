// Package stblfile writes the binary string table format.
//
// A table is a 21 byte little-endian header followed by one record per entry:
//
//	"STBL" | version u8 | 0 u8 | compression u8 | count u32 | 0 u32 | 0 u16 | payload u32
//	key u32 | flag u8 | length u16 | UTF-8 text
//
// payload is the sum of every text length plus one per entry.
package stblfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	apperrors "github.com/louisbranch/stblbuilder/internal/platform/errors"
	"github.com/louisbranch/stblbuilder/internal/stbl/language"
	"github.com/louisbranch/stblbuilder/internal/stbl/table"
)

const (
	// Magic opens every table.
	Magic = "STBL"
	// Version is the format version written by this encoder.
	Version = 5
	// HeaderSize is the encoded header length in bytes.
	HeaderSize = 21
	// Extension is the table file extension.
	Extension = "stbl"
	// MaxTextLength is the longest UTF-8 text an entry can hold.
	MaxTextLength = math.MaxUint16
)

// ErrFieldTooLarge matches values that overflow a fixed width field.
var ErrFieldTooLarge = apperrors.New(apperrors.CodeFieldTooLarge, "field too large")

type header struct {
	Magic       [4]byte
	Version     uint8
	_           uint8
	Compression uint8
	Count       uint32
	_           uint32
	_           uint16
	Payload     uint32
}

type recordHeader struct {
	Key    uint32
	Flag   uint8
	Length uint16
}

// Encode writes records as a table. Sizes are checked before anything is
// written, so an oversized table leaves w untouched.
func Encode(w io.Writer, records []table.Resolved) error {
	payload, err := payloadSize(records)
	if err != nil {
		return err
	}

	h := header{
		Version: Version,
		Count:   uint32(len(records)),
		Payload: payload,
	}
	copy(h.Magic[:], Magic)

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, record := range records {
		rh := recordHeader{Key: record.Key, Length: uint16(len(record.Text))}
		if err := binary.Write(bw, binary.LittleEndian, rh); err != nil {
			return fmt.Errorf("write entry %q: %w", record.Identifier, err)
		}
		if _, err := bw.WriteString(record.Text); err != nil {
			return fmt.Errorf("write entry %q: %w", record.Identifier, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}

// Marshal returns the encoded table for records.
func Marshal(records []table.Resolved) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTable resolves t for l and writes the result.
func EncodeTable(w io.Writer, t *table.Table, l language.Language) error {
	if !l.Valid() {
		return apperrors.WithMetadata(apperrors.CodeInvalidLanguage, fmt.Sprintf("invalid language code %d", uint8(l)), map[string]string{"language": strconv.Itoa(int(l))})
	}
	return Encode(w, t.Resolve(l))
}

func payloadSize(records []table.Resolved) (uint32, error) {
	if uint64(len(records)) > math.MaxUint32 {
		return 0, apperrors.WithMetadata(
			apperrors.CodeFieldTooLarge,
			fmt.Sprintf("%d entries exceed the entry count field", len(records)),
			map[string]string{"field": "count"},
		)
	}
	var total uint64
	for _, record := range records {
		if len(record.Text) > MaxTextLength {
			return 0, apperrors.WithMetadata(
				apperrors.CodeFieldTooLarge,
				fmt.Sprintf("entry %q text is %d bytes, limit %d", record.Identifier, len(record.Text), MaxTextLength),
				map[string]string{"field": "length", "identifier": record.Identifier},
			)
		}
		total += uint64(len(record.Text)) + 1
		if total > math.MaxUint32 {
			return 0, apperrors.WithMetadata(
				apperrors.CodeFieldTooLarge,
				"payload size exceeds the payload field",
				map[string]string{"field": "payload"},
			)
		}
	}
	return uint32(total), nil
}
