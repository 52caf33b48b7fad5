// Package report holds the result record shared by the search pipeline and
// the output writers.
package report

// Hit is one reported result. In count mode, Count is set and Pos is 0.
type Hit struct {
	Source      string
	FileIndex   int
	Record      string
	RecordIndex int

	PatternIndex int
	PatternID    string
	Pattern      string

	Pos   int
	Count int
}
