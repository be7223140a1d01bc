package main

import (
	"fmt"
	"io"

	"github.com/hsklein/mtstates/cmd/mtstates/shared"
	"github.com/hsklein/mtstates/internal/statefile"
)

type ReshapeCmd struct {
	Runs       int    `arg:"" name:"nruns" help:"Number of simulation runs"`
	Substreams int    `arg:"" name:"nsubstreams" help:"Substreams per run"`
	Input      string `arg:"" type:"existingfile" help:"State file written by generate"`
	Output     string `arg:"" type:"path" help:".npy file to write"`

	stdout io.Writer
}

func (c *ReshapeCmd) Run(g *Globals) error {
	if c.Runs < 1 || c.Substreams < 1 {
		return fmt.Errorf("number of runs and substreams must be greater than zero, got %d and %d", c.Runs, c.Substreams)
	}

	logger := shared.SetupLogger("info", g.Debug)

	n, err := statefile.Count(c.Input)
	if err != nil {
		return err
	}
	if want := c.Runs * c.Substreams; n != want {
		return fmt.Errorf("%s holds %d states, expected %d runs x %d substreams = %d",
			c.Input, n, c.Runs, c.Substreams, want)
	}

	records, err := statefile.ReadAll(c.Input)
	if err != nil {
		return err
	}
	logger.Debug("Read state file", "path", c.Input, "records", len(records))

	table, err := statefile.NewTable(records, c.Runs, c.Substreams)
	if err != nil {
		return err
	}
	if err := table.SaveNPY(c.Output); err != nil {
		return err
	}

	fmt.Fprintf(stdoutOr(c.stdout), "Wrote %s with shape %v\n", c.Output, table.Shape())
	return nil
}
