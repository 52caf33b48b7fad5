// Package patterns loads the search patterns kmpfind runs and compiles them
// once for the whole run.
package patterns

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"kmputil-core/errs"
	"kmputil-core/kmp"
	"kmputil-core/seq"

	"kmputil/internal/cache"
)

// Entry is a named pattern as the user wrote it.
type Entry struct {
	ID   string
	Text string
}

// Compiled pairs an Entry with its compiled form.
type Compiled struct {
	Entry
	Pattern *kmp.Pattern
}

// FromArgs names command-line patterns p1, p2, ... in order.
func FromArgs(values []string) []Entry {
	out := make([]Entry, 0, len(values))
	for i, v := range values {
		out = append(out, Entry{ID: fmt.Sprintf("p%d", i+1), Text: v})
	}
	return out
}

// LoadTSV reads "id<TAB>pattern" lines. Blank lines and lines starting with
// '#' are skipped. A line without a tab is a bare pattern named by its line
// number. The pattern is taken verbatim: spaces are significant. A pattern
// that starts with '#' needs an id column, since a bare one reads as a
// comment.
func LoadTSV(path string) ([]Entry, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errs.WithHint(errs.Wrapf(err, "open pattern file"), "check the --patterns path")
	}
	defer func() { _ = fh.Close() }()
	list, err := ReadTSV(fh)
	if err != nil {
		return nil, errs.Wrapf(err, "%s", path)
	}
	return list, nil
}

// maxLine allows very long single patterns.
const maxLine = 16 * 1024 * 1024

// ReadTSV is LoadTSV over an open reader.
func ReadTSV(r io.Reader) ([]Entry, error) {
	var list []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, text, ok := strings.Cut(line, "\t")
		if !ok {
			list = append(list, Entry{ID: fmt.Sprintf("line%d", ln), Text: line})
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, errs.Newf("line %d: empty pattern id", ln)
		}
		list = append(list, Entry{ID: id, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// Compile compiles every entry at kind, reusing identical patterns through
// c. Any invalid textual pattern fails the whole set.
func Compile(entries []Entry, kind seq.Kind, c *cache.Patterns) ([]Compiled, error) {
	if c == nil {
		c = cache.NewPatterns(len(entries))
	}
	out := make([]Compiled, 0, len(entries))
	for _, e := range entries {
		p, err := c.Get(kind, e.Text)
		if err != nil {
			return nil, errs.Wrapf(err, "pattern %s", e.ID)
		}
		out = append(out, Compiled{Entry: e, Pattern: p})
	}
	return out, nil
}
