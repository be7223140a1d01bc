package gf2

import "math/bits"

// MinimalPolynomial returns the monic minimal polynomial of the binary
// sequence whose first n terms are the coefficients of seq (term j is bit j).
// It runs Berlekamp-Massey, which needs n >= 2L terms to find a recurrence
// of length L.
//
// The returned polynomial f has degree L and satisfies
// sum_i f_i·s_(j+i) = 0 for every j.
func MinimalPolynomial(seq Poly, n int) Poly {
	words := wordsFor(n+1) + 1

	c := make(Poly, words) // connection polynomial, c_0 = 1
	c[0] = 1
	b := make(Poly, words)
	b[0] = 1

	// window holds the sequence reversed: bit i is s_(k-i).
	window := make(Poly, words)

	l, m := 0, 1
	for k := range n {
		shiftLeft1(window)
		window[0] |= uint64(seq.Bit(k))

		// d = s_k + sum_{i=1..l} c_i·s_(k-i)
		var acc uint64
		for i := 0; i <= l/64 && i < words; i++ {
			acc ^= c[i] & window[i]
		}
		if bits.OnesCount64(acc)&1 == 0 {
			m++
			continue
		}

		if 2*l <= k {
			prev := c.Clone()
			xorShifted(c, b, m)
			l = k + 1 - l
			b = prev
			m = 1
		} else {
			xorShifted(c, b, m)
			m++
		}
	}

	// The characteristic polynomial is the reciprocal of c over degree l.
	f := New(l + 1)
	for i := 0; i <= l; i++ {
		if c.Bit(l-i) == 1 {
			f.SetBit(i)
		}
	}
	return f
}
