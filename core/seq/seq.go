// Package seq presents textual and binary input as comparable element
// sequences. Text is decoded into codepoints, binary data is kept as bytes.
// No folding or normalization is applied: equality is element-for-element.
package seq

import (
	"unicode/utf8"

	"kmputil-core/errs"
)

// Kind tags the element granularity of a Sequence.
type Kind uint8

const (
	Bytes Kind = iota
	Codepoints
)

func (k Kind) String() string {
	switch k {
	case Bytes:
		return "bytes"
	case Codepoints:
		return "codepoints"
	default:
		return "unknown"
	}
}

// Sequence is an immutable element sequence of one Kind. Exactly one of the
// backing slices is in use, selected by kind.
type Sequence struct {
	kind  Kind
	bytes []byte
	runes []rune
}

func (s Sequence) Kind() Kind { return s.kind }

// Len is the number of elements: bytes for Bytes, codepoints for Codepoints.
func (s Sequence) Len() int {
	if s.kind == Codepoints {
		return len(s.runes)
	}
	return len(s.bytes)
}

// Bytes returns the byte elements; nil unless Kind is Bytes.
// The slice must not be modified.
func (s Sequence) Bytes() []byte { return s.bytes }

// Runes returns the codepoint elements; nil unless Kind is Codepoints.
// The slice must not be modified.
func (s Sequence) Runes() []rune { return s.runes }

// Normalize converts input into a Sequence of the requested kind.
// Binary input never fails. Textual input must be valid UTF-8.
func Normalize(input []byte, kind Kind) (Sequence, error) {
	switch kind {
	case Bytes:
		return FromBytes(input), nil
	case Codepoints:
		runes, err := decodeUTF8(input)
		if err != nil {
			return Sequence{}, err
		}
		return Sequence{kind: Codepoints, runes: runes}, nil
	default:
		return Sequence{}, errs.Newf("unknown element kind %d", kind)
	}
}

// FromBytes copies b into a binary Sequence.
func FromBytes(b []byte) Sequence {
	return Sequence{kind: Bytes, bytes: append([]byte(nil), b...)}
}

// FromString decodes s as UTF-8 into a codepoint Sequence.
func FromString(s string) (Sequence, error) {
	if !utf8.ValidString(s) {
		return Sequence{}, errs.Encoding("UTF-8", invalidOffset(s))
	}
	return Sequence{kind: Codepoints, runes: []rune(s)}, nil
}

// FromRunes copies r into a codepoint Sequence. Runes are taken as given.
func FromRunes(r []rune) Sequence {
	return Sequence{kind: Codepoints, runes: append([]rune(nil), r...)}
}

// decodeUTF8 rejects invalid input instead of substituting U+FFFD, which
// would make distinct inputs compare equal.
func decodeUTF8(b []byte) ([]rune, error) {
	if !utf8.Valid(b) {
		return nil, errs.Encoding("UTF-8", invalidOffset(string(b)))
	}
	return []rune(string(b)), nil
}

func invalidOffset(s string) int {
	for off := 0; off < len(s); {
		r, size := utf8.DecodeRuneInString(s[off:])
		if r == utf8.RuneError && size <= 1 {
			return off
		}
		off += size
	}
	return len(s)
}
