package substream

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hsklein/mtstates/internal/jump"
	"github.com/hsklein/mtstates/internal/mt"
)

// Config describes a whole run.
type Config struct {
	Seed     uint32
	Distance uint64
	Count    int
	Workers  int
}

// DefaultConfig returns the configuration existing state files were made
// with, for a single substream.
func DefaultConfig() Config {
	return Config{
		Seed:     DefaultSeed,
		Distance: DefaultDistance,
		Count:    1,
		Workers:  1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("%w: substream count must be positive, got %d", ErrConfiguration, c.Count)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrConfiguration, c.Workers)
	}
	return nil
}

// Run generates cfg.Count substreams from a generator seeded with cfg.Seed
// and writes them to w in order. With more than one worker the substreams
// are split into contiguous ranges computed concurrently; the output is
// identical to a sequential run.
func Run(ctx context.Context, cfg Config, w Writer, logger *log.Logger, reporter Reporter) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if reporter == nil {
		reporter = NopReporter{}
	}

	workers := min(cfg.Workers, cfg.Count)
	if workers == 1 {
		s := NewSession(mt.New(cfg.Seed), WithLogger(logger), WithReporter(reporter))
		return s.Generate(ctx, cfg.Count, cfg.Distance, w)
	}

	reporter.OnStart(cfg.Count, cfg.Distance)
	results := make([][]uint32, cfg.Count)

	g, ctx := errgroup.WithContext(ctx)
	per, extra := cfg.Count/workers, cfg.Count%workers
	first := 0
	for worker := range workers {
		n := per
		if worker < extra {
			n++
		}
		start := first
		first += n

		g.Go(func() error {
			gen := mt.New(cfg.Seed)
			if start > 0 {
				// The worker's first substream follows start earlier ones.
				offset := new(big.Int).Mul(big.NewInt(int64(start)), new(big.Int).SetUint64(cfg.Distance))
				p, err := jump.ForBig(offset)
				if err != nil {
					return err
				}
				p.Jump(gen)
			}

			logger.Debug("Worker starting", "worker", worker, "first", start, "count", n)
			s := NewSession(gen,
				WithLogger(logger.With("worker", worker)),
				WithReporter(offsetReporter{Reporter: reporter, base: start}),
			)
			return s.Generate(ctx, n, cfg.Distance, &sliceWriter{records: results[start : start+n]})
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, rec := range results {
		if err := w.WriteState(rec); err != nil {
			return fmt.Errorf("substream %d: %w", i, err)
		}
	}
	reporter.OnComplete(cfg.Count)
	return nil
}

// sliceWriter stores records into a preallocated window of the results.
type sliceWriter struct {
	records [][]uint32
	next    int
}

func (w *sliceWriter) WriteState(words []uint32) error {
	if w.next >= len(w.records) {
		return fmt.Errorf("worker produced more than %d substreams", len(w.records))
	}
	w.records[w.next] = words
	w.next++
	return nil
}

// offsetReporter forwards a worker's progress with run-wide indices.
type offsetReporter struct {
	Reporter
	base int
}

func (r offsetReporter) OnStart(int, uint64) {}
func (r offsetReporter) OnComplete(int)      {}
func (r offsetReporter) OnSubstream(index int) {
	r.Reporter.OnSubstream(r.base + index)
}
