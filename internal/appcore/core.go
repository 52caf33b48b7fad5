package appcore

import (
	"context"
	"errors"
	"io"
	"runtime"

	"go.uber.org/zap"

	"kmputil-core/errs"

	"kmputil/internal/cache"
	"kmputil/internal/patterns"
	"kmputil/internal/pipeline"
	"kmputil/internal/source"
	"kmputil/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

type Options struct {
	Files    []string
	Patterns []patterns.Entry
	Encoding source.Encoding
	FASTA    bool

	Mode    pipeline.Mode
	Start   int
	MaxHits int

	Threads int

	Output string
	Sort   bool
	Header bool

	NoMatchExitCode int
}

// Run compiles the patterns, streams hits through the pipeline into the
// selected writer, and maps the outcome to an exit code.
func Run(parent context.Context, stdout io.Writer, log *zap.Logger, o Options) int {
	if len(o.Patterns) == 0 {
		log.Error("no patterns given", zap.String("hint", "use --pattern or --patterns"))
		return ExitUsage
	}
	if _, err := writers.Lookup(o.Output); err != nil {
		logError(log, "invalid output", err)
		return ExitUsage
	}
	files := o.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	compiled, err := patterns.Compile(o.Patterns, o.Encoding.ElementKind(), cache.NewPatterns(len(o.Patterns)))
	if err != nil {
		logError(log, "invalid pattern", err)
		return ExitUsage
	}

	thr := o.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	log.Info("starting search",
		zap.Int("patterns", len(compiled)),
		zap.Int("inputs", len(files)),
		zap.String("kind", string(o.Encoding)),
		zap.Int("threads", thr))

	inCh, writeErr := writers.StartHitWriter(stdout, o.Output, writers.Options{
		Header: o.Header,
		Sort:   o.Sort,
		Count:  o.Mode == pipeline.ModeCount,
		Kind:   string(o.Encoding),
	}, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	matched := 0
	perr := pipeline.ForEachHit(ctx, pipeline.Config{
		Threads:  thr,
		Encoding: o.Encoding,
		FASTA:    o.FASTA,
		Mode:     o.Mode,
		Start:    o.Start,
		MaxHits:  o.MaxHits,
		Logger:   log,
	}, files, compiled, func(h pipeline.Hit) error {
		if o.Mode != pipeline.ModeCount || h.Count > 0 {
			matched++
		}
		select {
		case inCh <- h:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		logError(log, "write failed", werr)
		return ExitRuntime
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return ExitCanceled
		}
		logError(log, "search failed", perr)
		return ExitRuntime
	}
	log.Info("search finished", zap.Int("hits", matched))
	if matched == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

func logError(log *zap.Logger, msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	if hints := errs.GetAllHints(err); len(hints) > 0 {
		fields = append(fields, zap.Strings("hints", hints))
	}
	log.Error(msg, fields...)
}
