// Package jump advances MT19937 states by arbitrary distances without
// stepping through them.
//
// With T the one-step transition and f its characteristic polynomial,
// T^k = P(T) where P = x^k mod f. P has degree below 19937, so applying it
// costs one pass of Horner's rule over the state instead of k steps, and
// computing it costs O(log k) polynomial products.
package jump

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/hsklein/mtstates/internal/gf2"
	"github.com/hsklein/mtstates/internal/mt"
)

// ErrCharacteristic is returned when the characteristic polynomial cannot
// be derived with the expected degree.
var ErrCharacteristic = errors.New("jump: characteristic polynomial")

// Characteristic returns the modulus for the characteristic polynomial of
// MT19937, derived on first use and shared read-only afterwards.
var Characteristic = sync.OnceValues(characteristic)

func characteristic() (*gf2.Modulus, error) {
	// The top bit of word 0 is a linear function of the state, so the
	// sequence it produces is annihilated by f. f is irreducible, so any
	// non-zero such sequence has f as its minimal polynomial and 2·19937
	// terms determine it.
	n := 2 * mt.Bits
	seq := gf2.New(n)
	s := mt.New(mt.DefaultSeed).State()
	for j := range n {
		if s.Word(0)>>31 == 1 {
			seq.SetBit(j)
		}
		s.Next()
	}

	f := gf2.MinimalPolynomial(seq, n)
	if d := f.Degree(); d != mt.Bits {
		return nil, fmt.Errorf("%w: degree %d, want %d", ErrCharacteristic, d, mt.Bits)
	}
	return gf2.NewModulus(f)
}

// Polynomial is a jump polynomial x^k mod f. It is immutable and may be
// shared between goroutines.
type Polynomial struct {
	coeffs gf2.Poly
	// exact is false only for k = 0, where the identity must leave the
	// state untouched, including bits the recurrence has not produced.
	exact bool
}

// For returns the jump polynomial for k steps.
func For(k uint64) (*Polynomial, error) {
	m, err := Characteristic()
	if err != nil {
		return nil, err
	}
	return &Polynomial{coeffs: m.PowX(k), exact: k > 0}, nil
}

// ForBig returns the jump polynomial for k steps, k >= 0.
func ForBig(k *big.Int) (*Polynomial, error) {
	m, err := Characteristic()
	if err != nil {
		return nil, err
	}
	p, err := m.PowXBig(k)
	if err != nil {
		return nil, err
	}
	return &Polynomial{coeffs: p, exact: k.Sign() > 0}, nil
}

// Coefficients returns a copy of the polynomial's coefficients.
func (p *Polynomial) Coefficients() gf2.Poly {
	return p.coeffs.Clone()
}

// Equal reports whether p and q jump the same distance modulo the period.
func (p *Polynomial) Equal(q *Polynomial) bool {
	return p.coeffs.Equal(q.coeffs)
}

// Then returns the polynomial that jumps by p and then by q.
func (p *Polynomial) Then(q *Polynomial) (*Polynomial, error) {
	m, err := Characteristic()
	if err != nil {
		return nil, err
	}
	return &Polynomial{
		coeffs: m.MulMod(p.coeffs, q.coeffs),
		exact:  p.exact || q.exact,
	}, nil
}

// Apply returns P(T)·s, the state k steps after s.
func (p *Polynomial) Apply(s mt.State) mt.State {
	var acc mt.State
	for i := p.coeffs.Degree(); i >= 0; i-- {
		acc.Next()
		if p.coeffs.Bit(i) == 1 {
			acc.Xor(&s)
		}
	}
	if p.exact {
		acc.RecoverLowBits()
	}
	return acc
}

// Jump advances g by the polynomial's distance. The generator is left at a
// block boundary, so its next Snapshot needs no rewinding.
func (p *Polynomial) Jump(g *mt.Generator) {
	g.SetState(p.Apply(g.State()))
}
