package jump

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsklein/mtstates/internal/gf2"
	"github.com/hsklein/mtstates/internal/mt"
)

func TestCharacteristic(t *testing.T) {
	t.Parallel()

	m, err := Characteristic()
	require.NoError(t, err)
	assert.Equal(t, mt.Bits, m.Degree())

	f := m.Poly()
	assert.Equal(t, uint(1), f.Bit(0), "an irreducible polynomial has a constant term")

	again, err := Characteristic()
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestJumpMatchesStepping(t *testing.T) {
	t.Parallel()

	starts := map[string]func() *mt.Generator{
		"seeded": func() *mt.Generator { return mt.New(1962) },
		"mid-block": func() *mt.Generator {
			g := mt.New(1962)
			g.Discard(1000)
			return g
		},
		"block boundary": func() *mt.Generator {
			g := mt.New(mt.DefaultSeed)
			g.Discard(2 * mt.N)
			return g
		},
	}

	for name, start := range starts {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, k := range []uint64{0, 1, 2, 63, 624, 10000} {
				want := start()
				want.Discard(k)

				got := start()
				p, err := For(k)
				require.NoError(t, err)
				p.Jump(got)

				require.Equal(t, want.Snapshot(), got.Snapshot(), "k=%d", k)
				for i := range 10 {
					require.Equal(t, want.Uint32(), got.Uint32(), "k=%d draw=%d", k, i)
				}
			}
		})
	}
}

func TestJumpReferenceOutput(t *testing.T) {
	t.Parallel()

	g := mt.New(mt.DefaultSeed)
	p, err := For(9999)
	require.NoError(t, err)
	p.Jump(g)
	assert.Equal(t, uint32(4123659995), g.Uint32())
}

func TestJumpZeroIsIdentity(t *testing.T) {
	t.Parallel()

	g := mt.New(1962)
	before := g.Snapshot()
	p, err := For(0)
	require.NoError(t, err)
	p.Jump(g)
	assert.Equal(t, before, g.Snapshot())
}

func TestExponentDecomposition(t *testing.T) {
	t.Parallel()

	s := mt.New(1962).State()
	pairs := [][2]uint64{{0, 0}, {0, 7}, {7, 0}, {1, 1}, {100, 524}, {1 << 20, 12345}, {1 << 50, 1 << 50}}
	for _, pair := range pairs {
		k1, k2 := pair[0], pair[1]
		p1, err := For(k1)
		require.NoError(t, err)
		p2, err := For(k2)
		require.NoError(t, err)
		sum, err := For(k1 + k2)
		require.NoError(t, err)

		composed, err := p1.Then(p2)
		require.NoError(t, err)
		assert.True(t, composed.Equal(sum), "%d+%d", k1, k2)

		want := sum.Apply(s)
		got := p2.Apply(p1.Apply(s))
		assert.True(t, want.Equal(&got), "%d+%d", k1, k2)
	}
}

func TestForBig(t *testing.T) {
	t.Parallel()

	p, err := ForBig(big.NewInt(1 << 50))
	require.NoError(t, err)
	q, err := For(1 << 50)
	require.NoError(t, err)
	assert.True(t, p.Equal(q))

	half, err := For(1 << 63)
	require.NoError(t, err)
	twice, err := half.Then(half)
	require.NoError(t, err)
	big64, err := ForBig(new(big.Int).Lsh(big.NewInt(1), 64))
	require.NoError(t, err)
	assert.True(t, twice.Equal(big64))

	_, err = ForBig(big.NewInt(-3))
	assert.ErrorIs(t, err, gf2.ErrNegativeExponent)
}

func TestConsecutiveJumpsMoveTheState(t *testing.T) {
	t.Parallel()

	p, err := For(1 << 50)
	require.NoError(t, err)

	g := mt.New(1962)
	prev := g.Snapshot()
	for range 4 {
		p.Jump(g)
		next := g.Snapshot()
		assert.NotEqual(t, prev[0], next[0])
		assert.NotEqual(t, prev, next)
		prev = next
	}
}

func TestCoefficientsAreCopied(t *testing.T) {
	t.Parallel()

	p, err := For(5)
	require.NoError(t, err)
	c := p.Coefficients()
	assert.Equal(t, 5, c.Degree())
	c.ClearBit(5)
	assert.Equal(t, 5, p.Coefficients().Degree())
}
