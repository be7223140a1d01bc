package statefile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/hsklein/mtstates/internal/fileutil"
	"github.com/hsklein/mtstates/internal/mt"
	"github.com/hsklein/mtstates/internal/npy"
)

// Table is a [runs][substreams][mt.N] array of substream states: one row of
// independent substreams per simulation run.
type Table struct {
	Runs       int
	Substreams int
	data       []uint32
}

// NewTable lays records out as runs rows of substreams each.
func NewTable(records [][]uint32, runs, substreams int) (*Table, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be greater than zero, got %d", runs)
	}
	if substreams < 1 {
		return nil, fmt.Errorf("substreams must be greater than zero, got %d", substreams)
	}
	if len(records) != runs*substreams {
		return nil, fmt.Errorf("unexpected record count %d, want %d (%d runs x %d substreams)",
			len(records), runs*substreams, runs, substreams)
	}

	t := &Table{Runs: runs, Substreams: substreams, data: make([]uint32, 0, len(records)*mt.N)}
	for i, rec := range records {
		if len(rec) != mt.N {
			return nil, fmt.Errorf("record %d: %w: got %d words", i, mt.ErrStateSize, len(rec))
		}
		t.data = append(t.data, rec...)
	}
	return t, nil
}

// Record returns the state for a zero-based run and substream.
func (t *Table) Record(run, substream int) []uint32 {
	i := (run*t.Substreams + substream) * mt.N
	return t.data[i : i+mt.N : i+mt.N]
}

// Shape returns the table dimensions.
func (t *Table) Shape() []int {
	return []int{t.Runs, t.Substreams, mt.N}
}

// SaveNPY writes the table as a three dimensional uint32 .npy file.
func (t *Table) SaveNPY(path string) error {
	var buf bytes.Buffer
	buf.Grow(128 + 4*len(t.data))
	if err := npy.Write(&buf, t.Shape(), t.data, nil); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadTable reads a table saved by SaveNPY. The array must be three
// dimensional with a last dimension of mt.N.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failure opening state table: %w", err)
	}
	defer f.Close()

	a, err := npy.Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failure reading state table %s: %w", path, err)
	}
	if len(a.Shape) != 3 {
		return nil, fmt.Errorf("state table %s is not a 3-dimensional array (shape %v)", path, a.Shape)
	}
	if a.Shape[2] != mt.N {
		return nil, fmt.Errorf("state table %s: %w: state length is %d", path, mt.ErrStateSize, a.Shape[2])
	}
	runs, substreams := a.Shape[0], a.Shape[1]
	if runs < 1 || substreams < 1 {
		return nil, fmt.Errorf("state table %s is empty (shape %v)", path, a.Shape)
	}
	if len(a.Data) != runs*substreams*mt.N {
		return nil, fmt.Errorf("state table %s holds %d words, shape %v needs %d",
			path, len(a.Data), a.Shape, runs*substreams*mt.N)
	}
	return &Table{Runs: runs, Substreams: substreams, data: a.Data}, nil
}
