// Package substream generates the starting states of non-overlapping
// substreams of one MT19937 sequence by jumping a generator ahead a fixed
// distance between snapshots.
package substream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/hsklein/mtstates/internal/jump"
	"github.com/hsklein/mtstates/internal/mt"
)

const (
	// DefaultSeed is the seed existing state files were generated with.
	DefaultSeed uint32 = 1962

	// DefaultDistance is the number of raw steps between substreams, 2^50.
	DefaultDistance uint64 = 1 << 50
)

// ErrConfiguration is returned for requests that cannot produce a valid
// sequence of substreams.
var ErrConfiguration = errors.New("invalid substream configuration")

// Generator is the live stream a session advances.
type Generator interface {
	State() mt.State
	SetState(mt.State)
	Snapshot() []uint32
}

// Writer receives each substream state, in order.
type Writer interface {
	WriteState(words []uint32) error
}

// Session owns one generator and jumps it from substream to substream.
type Session struct {
	gen      Generator
	logger   *log.Logger
	reporter Reporter

	// jumps caches jump polynomials by distance.
	jumps map[uint64]*jump.Polynomial
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithReporter sets the progress reporter.
func WithReporter(r Reporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// NewSession returns a session advancing gen, which must already be seeded.
func NewSession(gen Generator, opts ...Option) *Session {
	s := &Session{
		gen:      gen,
		logger:   log.New(io.Discard),
		reporter: NopReporter{},
		jumps:    make(map[uint64]*jump.Polynomial),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Polynomial returns the jump polynomial for distance, computing it on
// first use.
func (s *Session) Polynomial(distance uint64) (*jump.Polynomial, error) {
	if p, ok := s.jumps[distance]; ok {
		return p, nil
	}
	p, err := jump.For(distance)
	if err != nil {
		return nil, err
	}
	s.jumps[distance] = p
	s.logger.Debug("Computed jump polynomial", "distance", distance)
	return p, nil
}

// Generate writes count substream states to w, each distance raw steps
// after the previous one; the first is distance steps after the
// generator's current state.
func (s *Session) Generate(ctx context.Context, count int, distance uint64, w Writer) error {
	if count < 1 {
		return fmt.Errorf("%w: substream count must be positive, got %d", ErrConfiguration, count)
	}

	p, err := s.Polynomial(distance)
	if err != nil {
		return err
	}

	s.reporter.OnStart(count, distance)
	for i := range count {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("substream %d: %w", i, err)
		}

		s.gen.SetState(p.Apply(s.gen.State()))

		words := s.gen.Snapshot()
		if len(words) != mt.N {
			return fmt.Errorf("substream %d: %w: got %d words, want %d", i, mt.ErrStateSize, len(words), mt.N)
		}
		if err := w.WriteState(words); err != nil {
			return fmt.Errorf("substream %d: %w", i, err)
		}

		s.logger.Debug("Generated substream", "index", i, "first", words[0], "last", words[mt.N-1])
		s.reporter.OnSubstream(i)
	}
	s.reporter.OnComplete(count)
	return nil
}
