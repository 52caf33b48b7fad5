// Package match streams occurrences of a pattern in a text using a prefix
// table. Every scan is O(len(text)) after the table is built, owns its own
// cursor, and reports overlapping occurrences in increasing order.
//
// An empty pattern matches at every position 0..len(text) inclusive.
package match

import (
	"iter"

	"kmputil-core/prefix"
)

// Iterator is an explicit scan cursor. k is the number of pattern elements
// matched so far and j the next text position to read.
//
// The zero value is not usable; construct with NewIterator.
type Iterator[E comparable] struct {
	text    []E
	pattern []E
	table   prefix.Table
	start   int
	j, k    int
}

// NewIterator returns an iterator positioned at the start of text.
// table must be prefix.Build(pattern).
func NewIterator[E comparable](text, pattern []E, table prefix.Table) *Iterator[E] {
	return NewIteratorFrom(text, pattern, table, 0)
}

// NewIteratorFrom starts the scan at text[start]. Positions are still
// reported relative to the beginning of text. A start outside
// [0, len(text)] produces no matches.
func NewIteratorFrom[E comparable](text, pattern []E, table prefix.Table, start int) *Iterator[E] {
	it := &Iterator[E]{text: text, pattern: pattern, table: table, start: start}
	it.Reset()
	return it
}

// Reset rewinds the iterator to its starting position.
func (it *Iterator[E]) Reset() {
	it.j, it.k = it.start, 0
}

// Next returns the next match position, or ok=false once the text is
// exhausted.
func (it *Iterator[E]) Next() (pos int, ok bool) {
	n, m := len(it.text), len(it.pattern)
	if it.start < 0 || it.start > n {
		return 0, false
	}

	if m == 0 {
		// j walks start..n inclusive, one report per position
		if it.j > n {
			return 0, false
		}
		pos = it.j
		it.j++
		return pos, true
	}

	for it.j < n {
		c := it.text[it.j]
		for it.k > 0 && c != it.pattern[it.k] {
			it.k = it.table[it.k-1]
		}
		if c == it.pattern[it.k] {
			it.k++
		}
		it.j++
		if it.k == m {
			it.k = it.table[m-1] // keep overlapping candidates alive
			return it.j - m, true
		}
	}
	return 0, false
}

// Scan calls visit for each match in order until visit returns false.
func Scan[E comparable](text, pattern []E, table prefix.Table, visit func(pos int) bool) {
	ScanFrom(text, pattern, table, 0, visit)
}

// ScanFrom is Scan starting at text[start].
func ScanFrom[E comparable](text, pattern []E, table prefix.Table, start int, visit func(pos int) bool) {
	it := NewIteratorFrom(text, pattern, table, start)
	for {
		pos, ok := it.Next()
		if !ok || !visit(pos) {
			return
		}
	}
}

// All returns every match position. The result is nil when nothing matches.
func All[E comparable](text, pattern []E, table prefix.Table) []int {
	var out []int
	Scan(text, pattern, table, func(pos int) bool {
		out = append(out, pos)
		return true
	})
	return out
}

// First returns the earliest match without scanning past it.
func First[E comparable](text, pattern []E, table prefix.Table) (int, bool) {
	return FirstFrom(text, pattern, table, 0)
}

// FirstFrom returns the earliest match at or after start.
func FirstFrom[E comparable](text, pattern []E, table prefix.Table, start int) (int, bool) {
	return NewIteratorFrom(text, pattern, table, start).Next()
}

// Count returns the number of (possibly overlapping) matches.
func Count[E comparable](text, pattern []E, table prefix.Table) int {
	n := 0
	Scan(text, pattern, table, func(int) bool {
		n++
		return true
	})
	return n
}

// Positions adapts a scan to range-over-func. Each range starts a fresh
// scan, so the sequence can be iterated any number of times.
func Positions[E comparable](text, pattern []E, table prefix.Table) iter.Seq[int] {
	return PositionsFrom(text, pattern, table, 0)
}

// PositionsFrom is Positions starting at text[start].
func PositionsFrom[E comparable](text, pattern []E, table prefix.Table, start int) iter.Seq[int] {
	return func(yield func(int) bool) {
		ScanFrom(text, pattern, table, start, yield)
	}
}
