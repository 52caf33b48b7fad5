package seq

import (
	"encoding/binary"
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"kmputil-core/errs"
)

// DecodeUTF16 decodes UTF-16 text into a codepoint Sequence. A leading BOM
// overrides bigEndian and is not part of the result. Odd-length input and
// unpaired surrogates are rejected.
func DecodeUTF16(b []byte, bigEndian bool) (Sequence, error) {
	order := binary.ByteOrder(binary.LittleEndian)
	endian := unicode.LittleEndian
	if bigEndian {
		order, endian = binary.BigEndian, unicode.BigEndian
	}
	skip := 0
	if len(b) >= 2 {
		switch {
		case b[0] == 0xFE && b[1] == 0xFF:
			order, skip = binary.BigEndian, 2
		case b[0] == 0xFF && b[1] == 0xFE:
			order, skip = binary.LittleEndian, 2
		}
	}
	if off, ok := validUTF16(b[skip:], order); !ok {
		return Sequence{}, errs.Encoding("UTF-16", skip+off)
	}

	dec := unicode.BOMOverride(unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder())
	utf8Text, _, err := transform.Bytes(dec, b)
	if err != nil {
		return Sequence{}, errs.Wrap(err, "decode UTF-16")
	}
	return Sequence{kind: Codepoints, runes: []rune(string(utf8Text))}, nil
}

// validUTF16 reports the byte offset of the first malformed code unit.
func validUTF16(b []byte, order binary.ByteOrder) (int, bool) {
	n := len(b) / 2
	for i := 0; i < n; i++ {
		u := order.Uint16(b[2*i:])
		if !utf16.IsSurrogate(rune(u)) {
			continue
		}
		// high surrogate must be followed by a low one
		if u >= 0xDC00 || i+1 >= n {
			return 2 * i, false
		}
		lo := order.Uint16(b[2*(i+1):])
		if lo < 0xDC00 || lo > 0xDFFF {
			return 2 * i, false
		}
		i++
	}
	if len(b)%2 != 0 {
		return len(b) - 1, false
	}
	return 0, true
}
