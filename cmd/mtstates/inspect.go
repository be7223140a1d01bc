package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hsklein/mtstates/internal/mt"
	"github.com/hsklein/mtstates/internal/statefile"
)

type InspectCmd struct {
	File    string `arg:"" type:"existingfile" help:"State file to inspect"`
	Outputs int    `short:"n" default:"3" help:"Outputs to draw from each restored generator"`
	Record  *int   `help:"Show only this zero-based record"`

	stdout io.Writer
}

func (c *InspectCmd) Run(*Globals) error {
	out := stdoutOr(c.stdout)

	if c.Record != nil {
		rec, err := statefile.ReadRecord(c.File, *c.Record)
		if err != nil {
			return err
		}
		return c.print(out, *c.Record, rec)
	}

	records, err := statefile.ReadAll(c.File)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d records of %d words\n", c.File, len(records), mt.N)
	for i, rec := range records {
		if err := c.print(out, i, rec); err != nil {
			return err
		}
	}
	return nil
}

func (c *InspectCmd) print(out io.Writer, i int, rec []uint32) error {
	g, err := mt.Restore(rec)
	if err != nil {
		return fmt.Errorf("record %d: %w", i, err)
	}
	draws := make([]string, c.Outputs)
	for j := range draws {
		draws[j] = fmt.Sprint(g.Uint32())
	}
	fmt.Fprintf(out, "%4d  first=%08x last=%08x  outputs=[%s]\n",
		i, rec[0], rec[mt.N-1], strings.Join(draws, " "))
	return nil
}
