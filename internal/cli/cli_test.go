package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kmputil/internal/appcore"
	"kmputil/internal/pipeline"
	"kmputil/internal/source"
	"kmputil/internal/version"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func execute(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := Execute(context.Background(), argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestExecuteFindAll(t *testing.T) {
	fn := writeFile(t, t.TempDir(), "a.txt", "aaaa")
	code, out, stderr := execute(t, "-p", "aa", "--sort", "-t", "1", fn)
	require.Equal(t, appcore.ExitOK, code, stderr)
	assert.Equal(t, fn+":p1:0\n"+fn+":p1:1\n"+fn+":p1:2\n", out)
}

func TestExecuteTSVHeaderAndPatternFile(t *testing.T) {
	dir := t.TempDir()
	fn := writeFile(t, dir, "a.txt", "abcabc")
	pf := writeFile(t, dir, "pats.tsv", "# id\tpattern\nbc\tbc\n")

	code, out, stderr := execute(t, "-P", pf, "-o", "tsv", "--header", "--sort", fn)
	require.Equal(t, appcore.ExitOK, code, stderr)
	assert.Equal(t,
		"source\trecord\tpattern_id\tpattern\tpos\n"+
			fn+"\t\tbc\tbc\t1\n"+
			fn+"\t\tbc\tbc\t4\n", out)
}

func TestExecuteUsageErrors(t *testing.T) {
	fn := writeFile(t, t.TempDir(), "a.txt", "abc")

	tests := []struct {
		name string
		argv []string
	}{
		{name: "no patterns", argv: []string{fn}},
		{name: "bad kind", argv: []string{"-p", "a", "-k", "latin1", fn}},
		{name: "bad output", argv: []string{"-p", "a", "-o", "xml", fn}},
		{name: "first and count", argv: []string{"-p", "a", "--first", "--count", fn}},
		{name: "fasta with utf16", argv: []string{"-p", "a", "--fasta", "-k", "utf16le", fn}},
		{name: "negative start", argv: []string{"-p", "a", "--start", "-1", fn}},
		{name: "unknown flag", argv: []string{"--nope"}},
		{name: "missing config", argv: []string{"-p", "a", "--config", filepath.Join(t.TempDir(), "none.toml"), fn}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, out, stderr := execute(t, tc.argv...)
			assert.Equal(t, appcore.ExitUsage, code)
			assert.Empty(t, out)
			assert.Contains(t, stderr, "error:")
		})
	}
}

func TestExecuteNoMatchExitCode(t *testing.T) {
	fn := writeFile(t, t.TempDir(), "a.txt", "abc")
	code, _, _ := execute(t, "-p", "zz", fn)
	assert.Equal(t, 1, code)
	code, _, _ = execute(t, "-p", "zz", "--no-match-exit-code", "0", fn)
	assert.Equal(t, 0, code)
}

func TestExecuteVersionAndHelp(t *testing.T) {
	code, out, _ := execute(t, "--version")
	assert.Equal(t, appcore.ExitOK, code)
	assert.Contains(t, out, version.Version)

	code, out, _ = execute(t, "-h")
	assert.Equal(t, appcore.ExitOK, code)
	assert.Contains(t, out, "--pattern")
}

func TestResolveFromConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "kmpfind.toml", strings.Join([]string{
		`pattern = ["ab", "cd"]`,
		`kind = "bytes"`,
		`count = true`,
		`threads = 3`,
	}, "\n"))
	t.Setenv("KMPFIND_OUTPUT", "jsonl")
	t.Setenv("KMPFIND_MAX_HITS", "7")

	cmd := NewCommand(&bytes.Buffer{}, &bytes.Buffer{}, new(int))
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfg, "-t", "5"}))

	v := newViper()
	require.NoError(t, v.BindPFlags(cmd.Flags()))
	require.NoError(t, loadConfigFile(v))

	opts, logOpts, err := resolve(v, cmd.Flags(), []string{"x.bin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.bin"}, opts.Files)
	require.Len(t, opts.Patterns, 2)
	assert.Equal(t, "cd", opts.Patterns[1].Text)
	assert.Equal(t, source.Binary, opts.Encoding)
	assert.Equal(t, pipeline.ModeCount, opts.Mode)
	assert.Equal(t, 5, opts.Threads, "flags override config")
	assert.Equal(t, "jsonl", opts.Output)
	assert.Equal(t, 7, opts.MaxHits)
	assert.Equal(t, 1, opts.NoMatchExitCode)
	assert.False(t, logOpts.Quiet)
}

func TestResolveLogging(t *testing.T) {
	cmd := NewCommand(&bytes.Buffer{}, &bytes.Buffer{}, new(int))
	require.NoError(t, cmd.ParseFlags([]string{"-p", "x", "-vv", "--log-json"}))
	v := newViper()
	require.NoError(t, v.BindPFlags(cmd.Flags()))

	_, logOpts, err := resolve(v, cmd.Flags(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, logOpts.Verbosity)
	assert.True(t, logOpts.JSON)
}

func TestExecuteFirstShorthand(t *testing.T) {
	fn := writeFile(t, t.TempDir(), "a.txt", "abcabc")
	code, out, stderr := execute(t, "-p", "bc", "-1", "--start", "2", fn)
	require.Equal(t, appcore.ExitOK, code, stderr)
	assert.Equal(t, fn+":p1:4\n", out)
}

func TestExecuteEmptyPattern(t *testing.T) {
	fn := writeFile(t, t.TempDir(), "a.txt", "abc")
	code, out, stderr := execute(t, "-p", "", "--sort", fn)
	require.Equal(t, appcore.ExitOK, code, stderr)
	assert.Equal(t, fn+":p1:0\n"+fn+":p1:1\n"+fn+":p1:2\n"+fn+":p1:3\n", out)
}

func TestExecuteBytesPatternKeepsCRLF(t *testing.T) {
	fn := writeFile(t, t.TempDir(), "a.bin", "x\ny\r\nz\r\n")
	code, out, stderr := execute(t, "-k", "bytes", "-p", "\r\nz", fn)
	require.Equal(t, appcore.ExitOK, code, stderr)
	assert.Equal(t, fn+":p1:3\n", out)
}

func TestPatternArgsVerbatim(t *testing.T) {
	cmd := NewCommand(&bytes.Buffer{}, &bytes.Buffer{}, new(int))
	require.NoError(t, cmd.ParseFlags([]string{"-p", "a,b", "-p", `"q"`, "-p", ""}))
	v := newViper()
	require.NoError(t, v.BindPFlags(cmd.Flags()))

	got, err := patternArgs(v, cmd.Flags())
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", `"q"`, ""}, got)
}

func TestPatternFromEnvIsOnePattern(t *testing.T) {
	t.Setenv("KMPFIND_PATTERN", "a b")
	cmd := NewCommand(&bytes.Buffer{}, &bytes.Buffer{}, new(int))
	require.NoError(t, cmd.ParseFlags(nil))
	v := newViper()
	require.NoError(t, v.BindPFlags(cmd.Flags()))

	opts, _, err := resolve(v, cmd.Flags(), nil)
	require.NoError(t, err)
	require.Len(t, opts.Patterns, 1)
	assert.Equal(t, "a b", opts.Patterns[0].Text)
}
