package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/hsklein/mtstates/cmd/mtstates/shared"
	"github.com/hsklein/mtstates/internal/config"
	"github.com/hsklein/mtstates/internal/statefile"
	"github.com/hsklein/mtstates/internal/substream"
)

type GenerateCmd struct {
	Count    int     `arg:"" name:"nstreams" help:"Number of substream states to generate"`
	Output   string  `arg:"" name:"output" type:"path" help:"State file to write"`
	Seed     *uint32 `help:"Generator seed (overrides config, default 1962)"`
	Distance *uint64 `help:"Raw steps between substreams (overrides config, default 2^50)"`
	Workers  *int    `short:"w" help:"Substreams computed concurrently (overrides config)"`

	stdout  io.Writer
	clock   quartz.Clock
	profile *termenv.Profile
}

func (c *GenerateCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}
	if c.Distance != nil {
		cfg.Distance = *c.Distance
	}
	if c.Workers != nil {
		cfg.Workers = *c.Workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	run := cfg.Substream(c.Count)
	if err := run.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.LogLevel, g.Debug)
	ctx, stop := shared.SetupSignalHandler(logger)
	defer stop()

	out := stdoutOr(c.stdout)
	clock := c.clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	profile := termenv.EnvColorProfile()
	if c.profile != nil {
		profile = *c.profile
	}
	progress := NewProgressMonitor(out, clock, profile)

	w, err := statefile.Create(c.Output, nil)
	if err != nil {
		return err
	}
	defer w.Abort()

	logger.Debug("Generating substream states",
		"count", run.Count,
		"seed", run.Seed,
		"distance", run.Distance,
		"workers", run.Workers,
		"output", c.Output)

	if err := substream.Run(ctx, run, w, logger, progress); err != nil {
		return fmt.Errorf("generating substreams: %w", err)
	}
	if err := w.Commit(); err != nil {
		return err
	}

	logger.Debug("Wrote state file", "path", c.Output, "records", w.Count(), "elapsed", progress.Elapsed())
	progress.PrintSummary(c.Output, w.Count(), int64(w.Count())*statefile.RecordSize)
	return nil
}

func stdoutOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
