package writers

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmputil-core/errs"

	"kmputil/internal/report"
	"kmputil/pkg/api"
)

var sample = []report.Hit{
	{Source: "b.txt", FileIndex: 1, PatternID: "p1", Pattern: "aa", Pos: 3, Count: 1},
	{Source: "a.fa", FileIndex: 0, Record: "r2", RecordIndex: 1, PatternID: "p2", PatternIndex: 1, Pattern: "a\tb", Pos: 0, Count: 2},
	{Source: "a.fa", FileIndex: 0, Record: "r1", RecordIndex: 0, PatternID: "p1", Pattern: "aa", Pos: 7},
	{Source: "a.fa", FileIndex: 0, Record: "r1", RecordIndex: 0, PatternID: "p1", Pattern: "aa", Pos: 2},
}

func render(t *testing.T, format string, o Options, hits []report.Hit) (string, error) {
	t.Helper()
	var b bytes.Buffer
	in, done := StartHitWriter(&b, format, o, 1)
	for _, h := range hits {
		in <- h
	}
	close(in)
	err := <-done
	return b.String(), err
}

func TestTextSorted(t *testing.T) {
	out, err := render(t, FormatText, Options{Sort: true}, sample)
	require.NoError(t, err)
	assert.Equal(t, "a.fa:r1:p1:2\n"+
		"a.fa:r1:p1:7\n"+
		"a.fa:r2:p2:0\n"+
		"b.txt:p1:3\n", out)
}

func TestTextStreamingKeepsArrivalOrder(t *testing.T) {
	out, err := render(t, FormatText, Options{}, sample[:2])
	require.NoError(t, err)
	assert.Equal(t, "b.txt:p1:3\na.fa:r2:p2:0\n", out)
}

func TestTSV(t *testing.T) {
	out, err := render(t, FormatTSV, Options{Header: true, Count: true, Sort: true}, sample[:2])
	require.NoError(t, err)
	assert.Equal(t, "source\trecord\tpattern_id\tpattern\tcount\n"+
		"a.fa\tr2\tp2\ta\\tb\t2\n"+
		"b.txt\t\tp1\taa\t1\n", out)

	out, err = render(t, FormatTSV, Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJSONL(t *testing.T) {
	out, err := render(t, FormatJSONL, Options{Kind: "text"}, sample[2:3])
	require.NoError(t, err)

	var got api.HitV1
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Pos)
	assert.Equal(t, 7, *got.Pos)
	assert.Nil(t, got.Count)
	assert.Equal(t, "r1", got.Record)
	assert.Equal(t, "text", got.Kind)

	// position 0 is still emitted
	out, err = render(t, FormatJSONL, Options{Kind: "bytes"}, []report.Hit{{Source: "s", PatternID: "p"}})
	require.NoError(t, err)
	assert.Contains(t, out, `"pos":0`)
	assert.NotContains(t, out, `"record"`)

	out, err = render(t, FormatJSONL, Options{Count: true}, sample[:1])
	require.NoError(t, err)
	assert.Contains(t, out, `"count":1`)
	assert.NotContains(t, out, `"pos"`)
}

func TestUnknownFormat(t *testing.T) {
	_, err := render(t, "nope-format", Options{}, sample)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	assert.NotEmpty(t, errs.GetAllHints(err))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteErrorDrainsInput(t *testing.T) {
	in, done := StartHitWriter(failWriter{}, FormatText, Options{}, 1)
	for i := 0; i < 100; i++ {
		in <- report.Hit{Source: strings.Repeat("x", 1<<10)}
	}
	close(in)
	err := <-done
	assert.True(t, IsBrokenPipe(err))
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{FormatJSONL, FormatText, FormatTSV}, Formats())
}

func TestIsBrokenPipe(t *testing.T) {
	assert.False(t, IsBrokenPipe(nil))
	assert.False(t, IsBrokenPipe(io.EOF))
	assert.True(t, IsBrokenPipe(errs.Wrap(os.NewSyscallError("write", syscall.EPIPE), "flush")))
}
