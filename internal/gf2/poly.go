// Package gf2 implements the polynomial arithmetic over GF(2) needed to
// jump a linear generator ahead: multiplication, reduction modulo a fixed
// polynomial and exponentiation of x.
package gf2

import (
	"math/bits"
)

// Poly is a polynomial over GF(2). Bit i of the packed words is the
// coefficient of x^i; addition is XOR.
type Poly []uint64

// New returns a zero polynomial with room for n coefficients.
func New(n int) Poly {
	return make(Poly, wordsFor(n))
}

// One returns the constant polynomial 1 with room for n coefficients.
func One(n int) Poly {
	p := New(n)
	p[0] = 1
	return p
}

func wordsFor(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + 63) / 64
}

// Bit returns the coefficient of x^i.
func (p Poly) Bit(i int) uint {
	w := i / 64
	if i < 0 || w >= len(p) {
		return 0
	}
	return uint(p[w]>>(i%64)) & 1
}

// SetBit sets the coefficient of x^i to 1. It panics if i is out of range.
func (p Poly) SetBit(i int) {
	p[i/64] |= 1 << (i % 64)
}

// ClearBit sets the coefficient of x^i to 0.
func (p Poly) ClearBit(i int) {
	if w := i / 64; w < len(p) {
		p[w] &^= 1 << (i % 64)
	}
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Poly) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i*64 + 63 - bits.LeadingZeros64(p[i])
		}
	}
	return -1
}

// Clone returns a copy of p.
func (p Poly) Clone() Poly {
	q := make(Poly, len(p))
	copy(q, p)
	return q
}

// Equal reports whether p and q have the same coefficients, regardless of
// how many words each carries.
func (p Poly) Equal(q Poly) bool {
	n := max(len(p), len(q))
	for i := range n {
		var a, b uint64
		if i < len(p) {
			a = p[i]
		}
		if i < len(q) {
			b = q[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// Add returns p + q.
func Add(p, q Poly) Poly {
	if len(p) < len(q) {
		p, q = q, p
	}
	out := p.Clone()
	for i, w := range q {
		out[i] ^= w
	}
	return out
}

// xorShifted adds src·x^shift into dst, dropping terms that do not fit.
func xorShifted(dst, src Poly, shift int) {
	ws, bs := shift/64, uint(shift%64)
	for i, w := range src {
		if w == 0 {
			continue
		}
		j := i + ws
		if j >= len(dst) {
			return
		}
		dst[j] ^= w << bs
		if bs != 0 && j+1 < len(dst) {
			dst[j+1] ^= w >> (64 - bs)
		}
	}
}

// shiftLeft1 multiplies p by x in place, dropping the carry out of the top
// word.
func shiftLeft1(p Poly) {
	var carry uint64
	for i, w := range p {
		p[i] = w<<1 | carry
		carry = w >> 63
	}
}

// Mul returns a·b. The result has len(a)+len(b) words.
func Mul(a, b Poly) Poly {
	out := make(Poly, len(a)+len(b))
	if len(a) == 0 || len(b) == 0 {
		return out
	}

	// Comb method: b shifted by every in-word offset once, then one word
	// aligned XOR per set bit of a.
	var shifted [64]Poly
	for j := range shifted {
		shifted[j] = make(Poly, len(b)+1)
		xorShifted(shifted[j], b, j)
	}

	for i, w := range a {
		for w != 0 {
			j := bits.TrailingZeros64(w)
			w &= w - 1
			dst := out[i:]
			for k, v := range shifted[j] {
				dst[k] ^= v
			}
		}
	}
	return out
}

// Square returns a². Squaring over GF(2) spreads each coefficient of x^i to
// x^(2i).
func Square(a Poly) Poly {
	out := make(Poly, 2*len(a))
	for i, w := range a {
		out[2*i] = spread(uint32(w))
		out[2*i+1] = spread(uint32(w >> 32))
	}
	return out
}

// spread interleaves zero bits between the bits of x.
func spread(x uint32) uint64 {
	v := uint64(x)
	v = (v | v<<16) & 0x0000ffff0000ffff
	v = (v | v<<8) & 0x00ff00ff00ff00ff
	v = (v | v<<4) & 0x0f0f0f0f0f0f0f0f
	v = (v | v<<2) & 0x3333333333333333
	v = (v | v<<1) & 0x5555555555555555
	return v
}
