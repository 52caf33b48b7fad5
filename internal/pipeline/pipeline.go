// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kmputil-core/errs"

	"kmputil/internal/patterns"
	"kmputil/internal/report"
	"kmputil/internal/source"
)

// Mode selects what is reported per (unit, pattern).
type Mode int

const (
	ModeAll   Mode = iota // every position
	ModeFirst             // earliest position only
	ModeCount             // one Hit carrying the number of positions
)

// Config controls the scanning pipeline.
type Config struct {
	Threads  int // number of worker goroutines (>=1)
	Encoding source.Encoding
	FASTA    bool // one unit per FASTA record instead of per file
	Mode     Mode
	Start    int // first element offset searched in every unit
	MaxHits  int // ModeAll cap per (unit, pattern); 0 = unlimited
	Logger   *zap.Logger
}

// Hit is the record handed to ForEachHit visitors.
type Hit = report.Hit

// hitBatch bounds how many hits a worker buffers before handing them to the
// collector. Cancellation is also checked at every batch boundary.
const hitBatch = 1024

// ForEachHit searches every unit of every file with every pattern and calls
// visit from a single goroutine. Units are processed concurrently, so hits
// from different units may interleave; within one (unit, pattern) they are
// in increasing position order. The first error (decode, I/O, visit or
// context cancellation) stops the run and is returned.
func ForEachHit(
	ctx context.Context,
	cfg Config,
	files []string,
	pats []patterns.Compiled,
	visit func(Hit) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	type job struct {
		unit      source.Unit
		fileIndex int
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	jobs := make(chan job, cfg.Threads*2)
	results := make(chan []Hit, cfg.Threads*2)

	// Feed work
	g.Go(func() error {
		defer close(jobs)
		for i, path := range files {
			log.Debug("reading input", zap.String("source", path))
			err := source.Stream(gctx, path, cfg.FASTA, func(u source.Unit) error {
				select {
				case jobs <- job{unit: u, fileIndex: i}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		g.Go(func() error {
			defer wg.Done()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case j, ok := <-jobs:
					if !ok {
						return nil
					}
					send := func(hs []Hit) error {
						select {
						case results <- hs:
							return nil
						case <-gctx.Done():
							return gctx.Err()
						}
					}
					if err := searchUnit(gctx, cfg, j.unit, j.fileIndex, pats, send); err != nil {
						return err
					}
				}
			}
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collector
	var verr error
	for hs := range results {
		if verr != nil {
			continue
		}
		for _, h := range hs {
			if err := visit(h); err != nil {
				verr = err
				cancel()
				break
			}
		}
	}

	gerr := g.Wait()
	switch {
	case verr != nil:
		return verr
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return gerr
	}
}

// searchUnit runs every pattern over one unit, passing hits to send in
// batches of at most hitBatch. A batch is owned by send once passed.
func searchUnit(ctx context.Context, cfg Config, u source.Unit, fileIndex int, pats []patterns.Compiled, send func([]Hit) error) error {
	text, err := cfg.Encoding.Decode(u.Data)
	if err != nil {
		if u.Record != "" {
			return errs.Wrapf(err, "%s: record %s", u.Source, u.Record)
		}
		return errs.Wrapf(err, "%s", u.Source)
	}

	out := make([]Hit, 0, hitBatch)
	flush := func() error {
		if len(out) > 0 {
			if err := send(out); err != nil {
				return err
			}
			out = make([]Hit, 0, hitBatch)
		}
		return ctx.Err()
	}

	for pi, p := range pats {
		if err := ctx.Err(); err != nil {
			return err
		}
		base := Hit{
			Source: u.Source, FileIndex: fileIndex,
			Record: u.Record, RecordIndex: u.Index,
			PatternIndex: pi, PatternID: p.ID, Pattern: p.Text,
		}

		switch cfg.Mode {
		case ModeFirst:
			pos, found, err := p.Pattern.FindFirstFrom(text, cfg.Start)
			if err != nil {
				return err
			}
			if found {
				h := base
				h.Pos = pos
				out = append(out, h)
			}

		case ModeCount:
			positions, err := p.Pattern.MatchesFrom(text, cfg.Start)
			if err != nil {
				return err
			}
			h := base
			for range positions {
				h.Count++
				if h.Count%hitBatch == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
			}
			out = append(out, h)

		default:
			positions, err := p.Pattern.MatchesFrom(text, cfg.Start)
			if err != nil {
				return err
			}
			n := 0
			for pos := range positions {
				h := base
				h.Pos = pos
				out = append(out, h)
				n++
				if cfg.MaxHits > 0 && n >= cfg.MaxHits {
					break
				}
				if len(out) == hitBatch {
					if err := flush(); err != nil {
						return err
					}
				}
			}
		}
		if len(out) >= hitBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
