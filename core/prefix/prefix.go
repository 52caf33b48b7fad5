// Package prefix builds the Knuth-Morris-Pratt failure table.
package prefix

// Table holds, for each pattern position i, the length of the longest proper
// prefix of pattern[:i+1] that is also a suffix of it. Read-only once built.
type Table []int

// Build computes the prefix table of pattern in O(len(pattern)).
// An empty pattern yields an empty table.
func Build[E comparable](pattern []E) Table {
	m := len(pattern)
	table := make(Table, m)
	k := 0
	for i := 1; i < m; i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = table[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		table[i] = k
	}
	return table
}

// Border is the length of the longest proper border of the whole pattern.
func (t Table) Border() int {
	if len(t) == 0 {
		return 0
	}
	return t[len(t)-1]
}

// Period is the smallest p such that pattern[i] == pattern[i+p] for all
// valid i. Zero for an empty pattern.
func (t Table) Period() int {
	return len(t) - t.Border()
}
