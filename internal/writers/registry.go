package writers

import (
	"io"
	"sort"

	"kmputil-core/errs"

	"kmputil/internal/report"
)

// Options are shared by all formats.
type Options struct {
	Header bool
	Sort   bool
	Count  bool   // hits carry counts instead of positions
	Kind   string // input encoding name, echoed by machine formats
}

// Format renders hits. Begin runs once before the first hit.
type Format struct {
	Begin func(w io.Writer, o Options) error
	Hit   func(w io.Writer, h report.Hit, o Options) error
}

var formats = map[string]Format{}

// Register adds or replaces a format (last wins). Called from init blocks.
func Register(name string, f Format) { formats[name] = f }

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(formats))
	for name := range formats {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the named format.
func Lookup(name string) (Format, error) {
	f, ok := formats[name]
	if !ok {
		return Format{}, errs.WithHintf(errs.Newf("unknown output format %q (no writer registered)", name),
			"valid formats: %v", Formats())
	}
	return f, nil
}
