// Package source turns input paths into searchable units: one per file, or
// one per record when the inputs are FASTA.
package source

import (
	"context"
	"io"
	"strings"

	"kmputil-core/errs"
	"kmputil-core/seq"

	"kmputil/internal/fasta"
)

// Encoding is how input bytes are interpreted before searching.
type Encoding string

const (
	Text    Encoding = "text"    // UTF-8, codepoint positions
	Binary  Encoding = "bytes"   // raw bytes, byte positions
	UTF16LE Encoding = "utf16le" // UTF-16 (BOM honored), codepoint positions
	UTF16BE Encoding = "utf16be"
)

// Encodings lists the accepted --kind values.
var Encodings = []Encoding{Text, Binary, UTF16LE, UTF16BE}

// ParseEncoding validates a user-supplied encoding name.
func ParseEncoding(s string) (Encoding, error) {
	e := Encoding(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Encodings {
		if e == known {
			return e, nil
		}
	}
	return "", errs.WithHintf(errs.Newf("unknown kind %q", s),
		"valid kinds: text, bytes, utf16le, utf16be")
}

// ElementKind is the element granularity searches run at. Patterns are
// compiled at this kind.
func (e Encoding) ElementKind() seq.Kind {
	if e == Binary {
		return seq.Bytes
	}
	return seq.Codepoints
}

// Decode converts raw input into a searchable sequence.
func (e Encoding) Decode(data []byte) (seq.Sequence, error) {
	switch e {
	case Binary:
		return seq.FromBytes(data), nil
	case UTF16LE:
		return seq.DecodeUTF16(data, false)
	case UTF16BE:
		return seq.DecodeUTF16(data, true)
	default:
		return seq.Normalize(data, seq.Codepoints)
	}
}

// Unit is one searchable text.
type Unit struct {
	Source string // path as given; "-" for stdin
	Record string // FASTA record ID, empty for whole files
	Index  int    // record ordinal within Source
	Data   []byte
}

// Stream emits the units of path in input order. With asFASTA each record
// is a unit; otherwise the whole (decompressed) file is one unit.
func Stream(ctx context.Context, path string, asFASTA bool, emit func(Unit) error) error {
	if asFASTA {
		i := 0
		err := fasta.StreamPathCtx(ctx, path, func(r fasta.Record) error {
			u := Unit{Source: path, Record: r.ID, Index: i, Data: r.Seq}
			i++
			return emit(u)
		})
		return errs.Wrapf(err, "read %s", path)
	}

	rc, err := fasta.Open(path)
	if err != nil {
		return errs.Wrapf(err, "open %s", path)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return errs.Wrapf(err, "read %s", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return emit(Unit{Source: path, Data: data})
}
