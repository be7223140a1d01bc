package gf2

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

var (
	// ErrDegree is returned when a modulus has degree below one.
	ErrDegree = errors.New("gf2: modulus must have degree >= 1")

	// ErrNegativeExponent is returned by PowXBig for k < 0.
	ErrNegativeExponent = errors.New("gf2: negative exponent")
)

// Modulus is a fixed polynomial f of degree d together with the tables used
// to reduce products modulo f. A Modulus is immutable after construction and
// safe for concurrent use.
type Modulus struct {
	f     Poly
	low   Poly // f - x^d, degree < d
	deg   int
	words int

	// table[t] = t(x)·x^d mod f for every polynomial t of degree < 8.
	table [256]Poly
}

// NewModulus builds the reduction tables for f.
func NewModulus(f Poly) (*Modulus, error) {
	d := f.Degree()
	if d < 1 {
		return nil, fmt.Errorf("%w: got degree %d", ErrDegree, d)
	}

	m := &Modulus{
		f:     f.Clone()[:wordsFor(d+1)],
		deg:   d,
		words: wordsFor(d),
	}
	m.low = make(Poly, m.words)
	copy(m.low, m.f)
	m.low.ClearBit(d)

	// x^(d+i) mod f for i in 0..7, each one step of multiply-by-x from the
	// previous.
	var basis [8]Poly
	r := m.low.Clone()
	for i := range basis {
		basis[i] = r.Clone()
		r = m.mulX(r)
	}

	m.table[0] = make(Poly, m.words)
	for t := 1; t < len(m.table); t++ {
		lsb := bits.TrailingZeros8(uint8(t))
		m.table[t] = Add(m.table[t&(t-1)], basis[lsb])
	}
	return m, nil
}

// Degree returns the degree of the modulus.
func (m *Modulus) Degree() int {
	return m.deg
}

// Poly returns a copy of the modulus polynomial.
func (m *Modulus) Poly() Poly {
	return m.f.Clone()
}

// mulX returns r·x mod f for r of degree < d.
func (m *Modulus) mulX(r Poly) Poly {
	out := make(Poly, m.words+1)
	copy(out, r)
	shiftLeft1(out)
	if out.Bit(m.deg) == 1 {
		out.ClearBit(m.deg)
		for i, w := range m.low {
			out[i] ^= w
		}
	}
	return out[:m.words]
}

// Reduce returns p mod f. p is not modified.
func (m *Modulus) Reduce(p Poly) Poly {
	hi := p.Degree()
	if hi < m.deg {
		out := make(Poly, m.words)
		copy(out, p)
		return out
	}

	c := p.Clone()
	// Walk the bytes above x^d from the top; each byte t sitting at
	// x^(d+8k) is replaced by table[t]·x^(8k), which lies strictly below it.
	for k := (hi - m.deg) / 8; k >= 0; k-- {
		pos := m.deg + 8*k
		t := takeByte(c, pos)
		if t != 0 {
			xorShifted(c, m.table[t], 8*k)
		}
	}

	out := make(Poly, m.words)
	copy(out, c)
	return out
}

// takeByte returns the eight coefficients starting at x^pos and clears them.
func takeByte(c Poly, pos int) uint8 {
	w, s := pos/64, uint(pos%64)
	if w >= len(c) {
		return 0
	}
	v := c[w] >> s
	c[w] &^= 0xff << s
	if s > 56 && w+1 < len(c) {
		v |= c[w+1] << (64 - s)
		c[w+1] &^= 0xff >> (64 - s)
	}
	return uint8(v)
}

// MulMod returns a·b mod f.
func (m *Modulus) MulMod(a, b Poly) Poly {
	return m.Reduce(Mul(a, b))
}

// SquareMod returns a² mod f.
func (m *Modulus) SquareMod(a Poly) Poly {
	return m.Reduce(Square(a))
}

// MulXMod returns a·x mod f.
func (m *Modulus) MulXMod(a Poly) Poly {
	return m.mulX(m.Reduce(a))
}

// PowX returns x^k mod f by square-and-multiply over the bits of k, most
// significant first.
func (m *Modulus) PowX(k uint64) Poly {
	r := One(m.deg)
	for i := 63 - bits.LeadingZeros64(k); i >= 0; i-- {
		r = m.SquareMod(r)
		if k>>uint(i)&1 == 1 {
			r = m.mulX(r)
		}
	}
	return m.Reduce(r)
}

// PowXBig is PowX for exponents beyond uint64.
func (m *Modulus) PowXBig(k *big.Int) (Poly, error) {
	if k.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeExponent, k)
	}
	if k.IsUint64() {
		return m.PowX(k.Uint64()), nil
	}

	r := One(m.deg)
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = m.SquareMod(r)
		if k.Bit(i) == 1 {
			r = m.mulX(r)
		}
	}
	return r, nil
}
