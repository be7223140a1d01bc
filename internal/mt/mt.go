// Package mt implements the 32-bit Mersenne Twister MT19937 with its state
// exposed as explicit, testable primitives: single steps, normalized
// snapshots of the 624-word state and restoration from a snapshot.
//
// Seeding follows the reference init_genrand expansion, so New(seed)
// produces the same stream as Boost's and the C++ standard library's
// mt19937(seed).
package mt

import (
	"errors"
	"fmt"
)

const (
	// N is the number of 32-bit words in the state.
	N = 624
	// M is the middle word offset of the recurrence.
	M = 397

	// Bits is the dimension of the linear state.
	Bits = 32*N - 31

	// DefaultSeed is the seed of the reference implementation.
	DefaultSeed uint32 = 5489

	matrixA   uint32 = 0x9908b0df
	upperMask uint32 = 0x80000000
	lowerMask uint32 = 0x7fffffff

	seedMultiplier uint32 = 1812433253
)

// ErrStateSize is returned when a state does not hold exactly N words.
var ErrStateSize = errors.New("state size invariant violated")

// Generator is an MT19937 generator. The zero value is not seeded; use New.
type Generator struct {
	mt    [N]uint32
	index int
}

// New returns a generator seeded with seed.
func New(seed uint32) *Generator {
	g := &Generator{}
	g.Seed(seed)
	return g
}

// Restore returns a generator whose next output follows the normalized
// state words, as produced by Snapshot.
func Restore(words []uint32) (*Generator, error) {
	if len(words) != N {
		return nil, fmt.Errorf("%w: got %d words, want %d", ErrStateSize, len(words), N)
	}
	g := &Generator{index: N}
	copy(g.mt[:], words)
	return g, nil
}

// Seed re-initializes the generator from seed.
func (g *Generator) Seed(seed uint32) {
	g.mt[0] = seed
	for i := 1; i < N; i++ {
		prev := g.mt[i-1]
		g.mt[i] = seedMultiplier*(prev^prev>>30) + uint32(i)
	}
	g.index = N
}

// Index returns the position of the next word to temper, in [0, N].
func (g *Generator) Index() int {
	return g.index
}

func (g *Generator) twist() {
	var i int
	for ; i < N-M; i++ {
		g.mt[i] = g.mt[i+M] ^ twist(g.mt[i]&upperMask|g.mt[i+1]&lowerMask)
	}
	for ; i < N-1; i++ {
		g.mt[i] = g.mt[i+M-N] ^ twist(g.mt[i]&upperMask|g.mt[i+1]&lowerMask)
	}
	g.mt[N-1] = g.mt[M-1] ^ twist(g.mt[N-1]&upperMask|g.mt[0]&lowerMask)
	g.index = 0
}

// Uint32 advances the generator by one step and returns the tempered word.
func (g *Generator) Uint32() uint32 {
	if g.index >= N {
		g.twist()
	}

	y := g.mt[g.index]
	g.index++
	return temper(y)
}

func temper(y uint32) uint32 {
	y ^= y >> 11
	y ^= y << 7 & 0x9d2c5680
	y ^= y << 15 & 0xefc60000
	y ^= y >> 18
	return y
}

// Uint64 returns two consecutive outputs, the first in the high half. It
// makes Generator a math/rand/v2 Source.
func (g *Generator) Uint64() uint64 {
	hi := g.Uint32()
	return uint64(hi)<<32 | uint64(g.Uint32())
}

// Float64 returns a float in [0, 1) with 53-bit resolution built from two
// outputs, matching genrand_res53 (and Python's random.random).
func (g *Generator) Float64() float64 {
	a := g.Uint32() >> 5
	b := g.Uint32() >> 6
	return (float64(a)*67108864.0 + float64(b)) * (1.0 / 9007199254740992.0)
}

// Discard advances the generator by k steps one at a time.
func (g *Generator) Discard(k uint64) {
	for ; k > 0; k-- {
		if g.index >= N {
			g.twist()
		}
		g.index++
	}
}

// State returns the normalized linear state: the N sequence words preceding
// the next output. Mid-block, the words already overwritten by the last
// twist are recovered by running the recurrence backwards.
func (g *Generator) State() State {
	if g.index >= N {
		return NewState(g.mt)
	}

	// buf[N+j] holds the current block, buf[j] the block before it.
	var buf [2 * N]uint32
	copy(buf[N:], g.mt[:])
	for j := N - 1; j >= g.index; j-- {
		// Step j produced buf[j+N] from buf[j] (top bit), buf[j+1] (low bits)
		// and buf[j+M]; step j-1 involved the low bits of buf[j].
		hi := untwist(buf[j+N]^buf[j+M]) & upperMask
		lo := untwist(buf[j+N-1]^buf[j+M-1]) & lowerMask
		buf[j] = hi | lo
	}

	var words [N]uint32
	copy(words[:], buf[g.index:g.index+N])
	return NewState(words)
}

// SetState replaces the generator state; the next output is the one that
// follows s.
func (g *Generator) SetState(s State) {
	g.mt = s.Words()
	g.index = N
}

// Snapshot returns a copy of the normalized state words.
func (g *Generator) Snapshot() []uint32 {
	s := g.State()
	words := s.Words()
	return words[:]
}
