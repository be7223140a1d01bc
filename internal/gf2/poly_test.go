package gf2

import (
	"math/big"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polyOf(exps ...int) Poly {
	top := 0
	for _, e := range exps {
		top = max(top, e)
	}
	p := New(top + 1)
	for _, e := range exps {
		p[e/64] ^= 1 << (e % 64)
	}
	return p
}

func randomPoly(rng *rand.Rand, n int) Poly {
	p := New(n)
	for i := range p {
		p[i] = rng.Uint64()
	}
	for i := n; i < len(p)*64; i++ {
		p.ClearBit(i)
	}
	return p
}

// naiveMod reduces p modulo f one coefficient at a time.
func naiveMod(p, f Poly) Poly {
	d := f.Degree()
	c := p.Clone()
	for i := c.Degree(); i >= d; i-- {
		if c.Bit(i) == 1 {
			xorShifted(c, f, i-d)
		}
	}
	out := New(d)
	copy(out, c)
	return out
}

func TestPolyBasics(t *testing.T) {
	t.Parallel()

	p := polyOf(0, 3, 64, 130)
	assert.Equal(t, 130, p.Degree())
	assert.Equal(t, uint(1), p.Bit(64))
	assert.Equal(t, uint(0), p.Bit(65))
	assert.Equal(t, uint(0), p.Bit(10_000))
	assert.Equal(t, -1, New(100).Degree())

	q := p.Clone()
	q.ClearBit(130)
	assert.Equal(t, 64, q.Degree())
	assert.Equal(t, 130, p.Degree(), "clone must not alias")

	assert.True(t, polyOf(1).Equal(append(polyOf(1), 0, 0)))
	assert.False(t, polyOf(1).Equal(polyOf(2)))
	assert.True(t, Add(p, p).Equal(New(1)))
}

func TestMul(t *testing.T) {
	t.Parallel()

	// (x+1)^2 = x^2+1 over GF(2)
	assert.True(t, Mul(polyOf(0, 1), polyOf(0, 1)).Equal(polyOf(0, 2)))
	// (x^63+1)(x^65+x) = x^128 + x^64 + x^65 + x
	assert.True(t, Mul(polyOf(0, 63), polyOf(1, 65)).Equal(polyOf(1, 64, 65, 128)))

	rng := rand.New(rand.NewPCG(1, 2))
	a := randomPoly(rng, 700)
	b := randomPoly(rng, 333)

	// Distributes over addition and commutes.
	c := randomPoly(rng, 333)
	assert.True(t, Mul(a, Add(b, c)).Equal(Add(Mul(a, b), Mul(a, c))))
	assert.True(t, Mul(a, b).Equal(Mul(b, a)))
	assert.Equal(t, a.Degree()+b.Degree(), Mul(a, b).Degree())
}

func TestSquareMatchesMul(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	for _, n := range []int{1, 63, 64, 65, 1000, 19937} {
		a := randomPoly(rng, n)
		assert.True(t, Square(a).Equal(Mul(a, a)), "n=%d", n)
	}
}

func TestReduceMatchesLongDivision(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(5, 6))
	for _, d := range []int{1, 7, 8, 63, 64, 65, 127, 521} {
		f := randomPoly(rng, d+1)
		f.SetBit(d)
		m, err := NewModulus(f)
		require.NoError(t, err)
		assert.Equal(t, d, m.Degree())
		assert.True(t, m.Poly().Equal(f))

		for range 5 {
			p := randomPoly(rng, 2*d+70)
			assert.True(t, m.Reduce(p).Equal(naiveMod(p, f)), "d=%d", d)
		}
	}
}

func TestNewModulusRejectsConstants(t *testing.T) {
	t.Parallel()

	_, err := NewModulus(polyOf(0))
	assert.ErrorIs(t, err, ErrDegree)
	_, err = NewModulus(New(10))
	assert.ErrorIs(t, err, ErrDegree)
}

func TestPowX(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 8))
	f := randomPoly(rng, 89)
	f.SetBit(89)
	f.SetBit(0)
	m, err := NewModulus(f)
	require.NoError(t, err)

	// Repeated multiplication by x as the reference.
	ref := One(89)
	for k := range uint64(400) {
		assert.True(t, m.PowX(k).Equal(ref), "k=%d", k)
		ref = m.MulXMod(ref)
	}

	t.Run("exponents add", func(t *testing.T) {
		for _, pair := range [][2]uint64{{0, 5}, {1, 1}, {63, 624}, {1 << 40, 1<<50 + 3}} {
			sum := m.PowX(pair[0] + pair[1])
			prod := m.MulMod(m.PowX(pair[0]), m.PowX(pair[1]))
			assert.True(t, sum.Equal(prod), "%d+%d", pair[0], pair[1])
		}
	})

	t.Run("big exponents", func(t *testing.T) {
		small, err := m.PowXBig(big.NewInt(12345))
		require.NoError(t, err)
		assert.True(t, small.Equal(m.PowX(12345)))

		// x^(2^64) = (x^(2^63))^2
		k := new(big.Int).Lsh(big.NewInt(1), 64)
		got, err := m.PowXBig(k)
		require.NoError(t, err)
		assert.True(t, got.Equal(m.SquareMod(m.PowX(1<<63))))

		_, err = m.PowXBig(big.NewInt(-1))
		assert.ErrorIs(t, err, ErrNegativeExponent)
	})
}

func TestMinimalPolynomial(t *testing.T) {
	t.Parallel()

	t.Run("primitive trinomial", func(t *testing.T) {
		// s_(j+4) = s_(j+1) + s_j has minimal polynomial x^4 + x + 1.
		n := 40
		seq := New(n)
		s := []uint{1, 0, 0, 0}
		for j := 4; j < n; j++ {
			s = append(s, s[j-3]^s[j-4])
		}
		for j, v := range s {
			if v == 1 {
				seq.SetBit(j)
			}
		}
		assert.True(t, MinimalPolynomial(seq, n).Equal(polyOf(0, 1, 4)))
	})

	t.Run("zero sequence", func(t *testing.T) {
		assert.True(t, MinimalPolynomial(New(64), 64).Equal(polyOf(0)))
	})

	t.Run("random recurrence", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(9, 10))
		const deg = 127
		f := randomPoly(rng, deg)
		f.SetBit(deg)
		f.SetBit(0)

		n := 2*deg + 10
		seq := New(n)
		for j := range deg {
			if rng.IntN(2) == 1 {
				seq.SetBit(j)
			}
		}
		for j := deg; j < n; j++ {
			var v uint
			for i := range deg {
				v ^= f.Bit(i) & seq.Bit(j-deg+i)
			}
			if v == 1 {
				seq.SetBit(j)
			}
		}

		got := MinimalPolynomial(seq, n)
		// The minimal polynomial divides f: f mod got == 0.
		m, err := NewModulus(got)
		require.NoError(t, err)
		assert.Equal(t, -1, m.Reduce(f).Degree())
	})
}
