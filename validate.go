package h2t

import (
	"bytes"
	"errors"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports input that is neither UTF-8 nor BOM-marked
	// UTF-16. It may still decode under a legacy charset.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that does not look like a text document.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	sniffLen        = 8 << 10
	minBinarySample = 64
	maxControlPct   = 2
)

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16BE = []byte{0xfe, 0xff}
	bomUTF16LE = []byte{0xff, 0xfe}
)

// ValidateInput sniffs the first 8 KiB of src for binary content and then
// checks the encoding. Binary content is reported before encoding errors, so
// a Latin-1 document containing NUL bytes yields ErrBinaryInput. UTF-16
// documents are accepted when they start with a byte order mark.
func ValidateInput(src []byte) error {
	if bytes.HasPrefix(src, bomUTF16BE) || bytes.HasPrefix(src, bomUTF16LE) {
		return nil
	}
	if looksBinary(src) {
		return ErrBinaryInput
	}
	if !utf8.Valid(bytes.TrimPrefix(src, bomUTF8)) {
		return ErrInvalidUTF8
	}
	return nil
}

func looksBinary(src []byte) bool {
	sample := src
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	control := 0
	for _, b := range sample {
		if b == 0x00 {
			return true
		}
		if isControlByte(b) {
			control++
		}
	}
	return len(sample) >= minBinarySample && control*100 >= len(sample)*maxControlPct
}

// isControlByte excludes tab, newline, vertical tab, form feed, carriage
// return and ESC, which appear in real documents.
func isControlByte(b byte) bool {
	switch {
	case b < 0x09:
		return true
	case b > 0x0d && b < 0x20:
		return b != 0x1b
	case b == 0x7f:
		return true
	}
	return false
}
