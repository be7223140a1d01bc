// Package randutil turns stored substream states back into generators for
// simulation code.
package randutil

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/hsklein/mtstates/internal/mt"
	"github.com/hsklein/mtstates/internal/statefile"
)

// FromState returns a *rand.Rand drawing from an MT19937 generator restored
// from a substream state, so every consumer of the state gets the same
// sequence.
func FromState(words []uint32) (*rand.Rand, error) {
	g, err := mt.Restore(words)
	if err != nil {
		return nil, err
	}
	return rand.New(g), nil
}

// ForRun returns one generator per substream for a 1-based run number.
func ForRun(t *statefile.Table, run int) ([]*mt.Generator, error) {
	if run < 1 || run > t.Runs {
		return nil, fmt.Errorf("requested run number %d is outside the %d runs defined in the state table", run, t.Runs)
	}

	gens := make([]*mt.Generator, t.Substreams)
	for i := range gens {
		g, err := mt.Restore(t.Record(run-1, i))
		if err != nil {
			return nil, fmt.Errorf("substream %d: %w", i, err)
		}
		gens[i] = g
	}
	return gens, nil
}
