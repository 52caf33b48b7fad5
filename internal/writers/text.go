package writers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"kmputil/internal/report"
)

const (
	FormatText  = "text"
	FormatTSV   = "tsv"
	FormatJSONL = "jsonl"
)

func init() {
	Register(FormatText, Format{Hit: writeTextHit})
	Register(FormatTSV, Format{Begin: writeTSVHeader, Hit: writeTSVHit})
}

// value is the position, or the count in count mode.
func value(h report.Hit, o Options) int {
	if o.Count {
		return h.Count
	}
	return h.Pos
}

// text: source[:record]:pattern_id:value, grep style.
func writeTextHit(w io.Writer, h report.Hit, o Options) error {
	var b strings.Builder
	b.WriteString(h.Source)
	if h.Record != "" {
		b.WriteByte(':')
		b.WriteString(h.Record)
	}
	b.WriteByte(':')
	b.WriteString(h.PatternID)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(value(h, o)))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTSVHeader(w io.Writer, o Options) error {
	if !o.Header {
		return nil
	}
	col := "pos"
	if o.Count {
		col = "count"
	}
	_, err := fmt.Fprintf(w, "source\trecord\tpattern_id\tpattern\t%s\n", col)
	return err
}

func writeTSVHit(w io.Writer, h report.Hit, o Options) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
		h.Source, h.Record, h.PatternID, tsvEscape(h.Pattern), value(h, o))
	return err
}

// tsvEscape keeps one hit per line when a pattern holds tabs or newlines.
func tsvEscape(s string) string {
	if !strings.ContainsAny(s, "\t\n\r\\") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)
	return r.Replace(s)
}
