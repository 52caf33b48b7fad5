// Package fasta reads FASTA records and opens (optionally gzipped) inputs.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"kmputil-core/errs"
)

// Record is one FASTA entry. Seq has line breaks and surrounding
// whitespace removed but is otherwise untouched (case is preserved).
type Record struct {
	ID  string
	Seq []byte
}

// maxLine allows very long single-line sequences.
const maxLine = 64 * 1024 * 1024

// StreamCtx parses FASTA from r and calls emit once per record. Data before
// the first header is emitted under an empty ID. Cancellation is checked
// between lines.
func StreamCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id      string
		started bool
		seq     = make([]byte, 0, 1<<16)
	)
	flush := func() error {
		if !started && len(seq) == 0 {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) > 0 && line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, started = parseHeaderID(line[1:]), true
			seq = seq[:0]
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return errs.Wrap(err, "fasta scan")
	}
	return flush()
}

// StreamPathCtx opens path (see Open) and streams its records.
func StreamPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	return StreamCtx(ctx, rc, emit)
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
