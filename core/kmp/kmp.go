// Package kmp is the entry point for exact substring search.
//
// A Pattern is compiled once (its prefix table is built) and can then be run
// against any number of texts of the same element kind, concurrently if
// desired. Positions are element indexes: bytes for binary input, codepoints
// for text.
//
//	p, err := kmp.CompileString("aba")
//	pos, err := p.FindAll(text) // overlapping, increasing
package kmp

import (
	"iter"

	"kmputil-core/errs"
	"kmputil-core/match"
	"kmputil-core/prefix"
	"kmputil-core/seq"
)

// Pattern is a compiled search pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	seq   seq.Sequence
	table prefix.Table
}

// Compile builds the prefix table for p.
func Compile(p seq.Sequence) *Pattern {
	var table prefix.Table
	switch p.Kind() {
	case seq.Codepoints:
		table = prefix.Build(p.Runes())
	default:
		table = prefix.Build(p.Bytes())
	}
	return &Pattern{seq: p, table: table}
}

// CompileBytes compiles a binary pattern.
func CompileBytes(p []byte) *Pattern { return Compile(seq.FromBytes(p)) }

// CompileString compiles a textual pattern. p must be valid UTF-8.
func CompileString(p string) (*Pattern, error) {
	s, err := seq.FromString(p)
	if err != nil {
		return nil, err
	}
	return Compile(s), nil
}

func (p *Pattern) Kind() seq.Kind { return p.seq.Kind() }
func (p *Pattern) Len() int { return p.seq.Len() }
func (p *Pattern) Sequence() seq.Sequence { return p.seq }
func (p *Pattern) Table() prefix.Table { return p.table }

func (p *Pattern) check(text seq.Sequence) error {
	if text.Kind() != p.seq.Kind() {
		return errs.TypeMismatch(p.seq.Kind(), text.Kind())
	}
	return nil
}

// FindAll returns every start position of p in text, including overlaps.
func (p *Pattern) FindAll(text seq.Sequence) ([]int, error) {
	if err := p.check(text); err != nil {
		return nil, err
	}
	if p.Kind() == seq.Codepoints {
		return match.All(text.Runes(), p.seq.Runes(), p.table), nil
	}
	return match.All(text.Bytes(), p.seq.Bytes(), p.table), nil
}

// FindFirst returns the earliest position of p in text. found is false when
// there is none.
func (p *Pattern) FindFirst(text seq.Sequence) (pos int, found bool, err error) {
	return p.FindFirstFrom(text, 0)
}

// FindFirstFrom returns the earliest position at or after start.
func (p *Pattern) FindFirstFrom(text seq.Sequence, start int) (pos int, found bool, err error) {
	if err := p.check(text); err != nil {
		return 0, false, err
	}
	if p.Kind() == seq.Codepoints {
		pos, found = match.FirstFrom(text.Runes(), p.seq.Runes(), p.table, start)
	} else {
		pos, found = match.FirstFrom(text.Bytes(), p.seq.Bytes(), p.table, start)
	}
	return pos, found, nil
}

// Count returns the number of overlapping occurrences of p in text.
func (p *Pattern) Count(text seq.Sequence) (int, error) {
	if err := p.check(text); err != nil {
		return 0, err
	}
	if p.Kind() == seq.Codepoints {
		return match.Count(text.Runes(), p.seq.Runes(), p.table), nil
	}
	return match.Count(text.Bytes(), p.seq.Bytes(), p.table), nil
}

// Matches returns a lazy, restartable sequence of match positions.
// The kind check happens before any iteration.
func (p *Pattern) Matches(text seq.Sequence) (iter.Seq[int], error) {
	return p.MatchesFrom(text, 0)
}

// MatchesFrom is Matches starting at element start. Positions stay relative
// to the beginning of text.
func (p *Pattern) MatchesFrom(text seq.Sequence, start int) (iter.Seq[int], error) {
	if err := p.check(text); err != nil {
		return nil, err
	}
	if p.Kind() == seq.Codepoints {
		return match.PositionsFrom(text.Runes(), p.seq.Runes(), p.table, start), nil
	}
	return match.PositionsFrom(text.Bytes(), p.seq.Bytes(), p.table, start), nil
}

// FindBytes returns every byte offset of pattern in text.
func FindBytes(text, pattern []byte) []int {
	return match.All(text, pattern, prefix.Build(pattern))
}

// IndexBytes returns the first byte offset of pattern in text at or after
// start.
func IndexBytes(text, pattern []byte, start int) (int, bool) {
	return match.FirstFrom(text, pattern, prefix.Build(pattern), start)
}

// FindString returns every codepoint offset of pattern in text.
func FindString(text, pattern string) ([]int, error) {
	t, pat, err := decodePair(text, pattern)
	if err != nil {
		return nil, err
	}
	return match.All(t, pat, prefix.Build(pat)), nil
}

// IndexString returns the first codepoint offset of pattern in text at or
// after the codepoint offset start.
func IndexString(text, pattern string, start int) (int, bool, error) {
	t, pat, err := decodePair(text, pattern)
	if err != nil {
		return 0, false, err
	}
	pos, ok := match.FirstFrom(t, pat, prefix.Build(pat), start)
	return pos, ok, nil
}

func decodePair(text, pattern string) ([]rune, []rune, error) {
	pat, err := seq.FromString(pattern)
	if err != nil {
		return nil, nil, errs.Wrap(err, "pattern")
	}
	t, err := seq.FromString(text)
	if err != nil {
		return nil, nil, errs.Wrap(err, "text")
	}
	return t.Runes(), pat.Runes(), nil
}
