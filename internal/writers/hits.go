package writers

import (
	"bufio"
	"io"
	"sort"

	"kmputil/internal/report"
)

// LessHit orders hits by input order: file, record, pattern, position.
func LessHit(a, b report.Hit) bool {
	if a.FileIndex != b.FileIndex {
		return a.FileIndex < b.FileIndex
	}
	if a.RecordIndex != b.RecordIndex {
		return a.RecordIndex < b.RecordIndex
	}
	if a.PatternIndex != b.PatternIndex {
		return a.PatternIndex < b.PatternIndex
	}
	return a.Pos < b.Pos
}

func SortHits(hs []report.Hit) {
	sort.SliceStable(hs, func(i, j int) bool { return LessHit(hs[i], hs[j]) })
}

// StartHitWriter spins up a writer goroutine. Hits sent on the returned
// channel are rendered in format; the error channel yields exactly one value
// after the input channel is closed. The input is always drained, so
// senders never block on a failed writer.
func StartHitWriter(out io.Writer, format string, o Options, bufSize int) (chan<- report.Hit, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan report.Hit, bufSize)
	done := make(chan error, 1)

	go func() {
		err := writeHits(out, format, o, in)
		for range in {
		}
		done <- err
	}()
	return in, done
}

func writeHits(out io.Writer, format string, o Options, in <-chan report.Hit) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(out, 64<<10)

	if f.Begin != nil {
		if err := f.Begin(bw, o); err != nil {
			return err
		}
	}
	if o.Sort {
		var buf []report.Hit
		for h := range in {
			buf = append(buf, h)
		}
		SortHits(buf)
		for _, h := range buf {
			if err := f.Hit(bw, h, o); err != nil {
				return err
			}
		}
	} else {
		for h := range in {
			if err := f.Hit(bw, h, o); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
