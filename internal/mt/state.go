package mt

// State is the linear state of the recurrence: the last N words of the
// sequence, oldest first, kept in a ring so that one step costs one word.
//
// Word 0 only contributes its top bit to future output; together with words
// 1..N-1 that makes the 19937 bits the generator's period is built on.
type State struct {
	w    [N]uint32
	head int
}

// NewState returns the state whose words, oldest first, are words.
func NewState(words [N]uint32) State {
	return State{w: words}
}

// Next advances the state by one raw step and returns the new word.
func (s *State) Next() uint32 {
	h := s.head
	h1 := h + 1
	if h1 == N {
		h1 = 0
	}
	hm := h + M
	if hm >= N {
		hm -= N
	}

	v := s.w[hm] ^ twist(s.w[h]&upperMask|s.w[h1]&lowerMask)
	s.w[h] = v
	s.head = h1
	return v
}

// Word returns word i, oldest first.
func (s *State) Word(i int) uint32 {
	i += s.head
	if i >= N {
		i -= N
	}
	return s.w[i]
}

// Words returns the words oldest first.
func (s *State) Words() [N]uint32 {
	var out [N]uint32
	n := copy(out[:], s.w[s.head:])
	copy(out[n:], s.w[:s.head])
	return out
}

// Xor adds o into s word by word.
func (s *State) Xor(o *State) {
	words := o.Words()
	n := N - s.head
	for j, v := range words[:n] {
		s.w[s.head+j] ^= v
	}
	for j, v := range words[n:] {
		s.w[j] ^= v
	}
}

// Equal reports whether both states hold the same words in the same order.
func (s *State) Equal(o *State) bool {
	return s.Words() == o.Words()
}

// RecoverLowBits rebuilds the low 31 bits of word 0 from the step that
// produced word N-1. Those bits never influence future output, so linear
// operations on states leave them arbitrary; the recurrence pins them down
// for any state that is a genuine window of the sequence (not the seeded
// one, whose word 0 was never produced by a step).
func (s *State) RecoverLowBits() {
	y := untwist(s.Word(N-1) ^ s.Word(M-1))
	s.w[s.head] = s.w[s.head]&upperMask | y&lowerMask
}

// twist is the matrix A applied to the concatenated word y.
func twist(y uint32) uint32 {
	return y>>1 ^ matrixA*(y&1)
}

// untwist inverts twist. The top bit of A's constant tells whether the low
// bit of y was set.
func untwist(t uint32) uint32 {
	if t&upperMask != 0 {
		return (t^matrixA)<<1 | 1
	}
	return t << 1
}
