package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"kmputil-core/errs"

	"kmputil/internal/appcore"
	"kmputil/internal/logging"
	"kmputil/internal/version"
)

// NewCommand builds the kmpfind root command. The exit code of a completed
// run is stored in *code; usage errors are returned from Execute instead.
func NewCommand(stdout, stderr io.Writer, code *int) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "kmpfind [flags] [FILE ...]",
		Short: "kmpfind: exact substring search (Knuth-Morris-Pratt)",
		Long: `kmpfind reports every position of one or more patterns in text or binary
inputs in linear time, including overlapping occurrences.

Positions are 0-based element offsets: codepoints for --kind text/utf16*,
bytes for --kind bytes. With no FILE, or FILE "-", standard input is read.
Gzipped inputs are decompressed transparently.`,
		Example: `  kmpfind -p needle haystack.txt
  kmpfind -p ACGT --fasta -o tsv --header genome.fa.gz
  kmpfind -k bytes -c -p "$(printf '\x7fELF')" /usr/bin/*
  kmpfind -P patterns.tsv --first -o jsonl corpus/*.txt`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := loadConfigFile(v); err != nil {
				return err
			}
			opts, logOpts, err := resolve(v, cmd.Flags(), args)
			if err != nil {
				return err
			}
			log := logging.New(stderr, logOpts)
			defer func() { _ = log.Sync() }()

			*code = appcore.Run(cmd.Context(), stdout, log, opts)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayP(keyPattern, "p", nil, "pattern to search for (repeatable)")
	f.StringP(keyPatternFile, "P", "", "TSV pattern file: id<TAB>pattern per line, '#' comments")
	f.StringP(keyKind, "k", "text", "input kind: text | bytes | utf16le | utf16be")
	f.Bool(keyFASTA, false, "treat inputs as FASTA and search each record")
	f.BoolP(keyFirst, "1", false, "report only the first match per input and pattern")
	f.BoolP(keyCount, "c", false, "report match counts instead of positions")
	f.Int(keyStart, 0, "start searching at this element offset")
	f.Int(keyMaxHits, 0, "max positions per input and pattern (0 = unlimited)")
	f.StringP(keyOutput, "o", "text", "output format: text | tsv | jsonl")
	f.Bool(keySort, false, "sort output by input, record, pattern and position")
	f.Bool(keyHeader, false, "print a header line (tsv)")
	f.IntP(keyThreads, "t", 0, "worker goroutines (0 = all CPUs)")
	f.Int(keyNoMatchExit, 1, "exit code when nothing matched")
	f.String(keyConfig, "", "config file (toml, yaml or json)")
	f.BoolP(keyQuiet, "q", false, "only log errors")
	f.CountP(keyVerbose, "v", "increase log verbosity (-v, -vv)")
	f.Bool(keyLogJSON, false, "log as JSON lines on stderr")
	cmd.MarkFlagsMutuallyExclusive(keyFirst, keyCount)

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// Execute runs kmpfind with argv and returns the process exit code.
func Execute(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	code := appcore.ExitOK
	cmd := NewCommand(stdout, stderr, &code)
	cmd.SetArgs(append([]string{}, argv...))
	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		for _, h := range errs.GetAllHints(err) {
			_, _ = fmt.Fprintf(stderr, "hint: %s\n", h)
		}
		return appcore.ExitUsage
	}
	return code
}
