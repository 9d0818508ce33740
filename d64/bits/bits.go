package bits

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedLength = errors.New("bits: malformed sequence length")
)

// Seq is an ordered sequence of bits, each element 0 or 1.
type Seq []uint8

// FromBytes expands b into 8*len(b) bits, most significant bit first per byte.
func FromBytes(b []byte) Seq {
	s := make(Seq, 0, len(b)*8)
	for _, v := range b {
		for i := 7; i >= 0; i-- {
			s = append(s, (v>>uint(i))&1)
		}
	}
	return s
}

// FromUint returns the low width bits of v, most significant first.
func FromUint(v uint64, width int) Seq {
	s := make(Seq, width)
	for i := 0; i < width; i++ {
		s[width-1-i] = uint8(v>>uint(i)) & 1
	}
	return s
}

// Bytes packs the sequence back into bytes. The length must be a multiple of 8.
func (s Seq) Bytes() ([]byte, error) {
	if len(s)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a whole number of bytes", ErrMalformedLength, len(s))
	}
	out := make([]byte, len(s)/8)
	for i, bit := range s {
		out[i/8] |= (bit & 1) << uint(7-i%8)
	}
	return out, nil
}

// Uint interprets the sequence as an unsigned big-endian integer.
// Sequences wider than 64 bits keep only the low 64.
func (s Seq) Uint() uint64 {
	var v uint64
	for _, bit := range s {
		v = v<<1 | uint64(bit&1)
	}
	return v
}

// Len returns the width in bits.
func (s Seq) Len() int { return len(s) }

// Check reports ErrMalformedLength unless the sequence is exactly width bits.
func (s Seq) Check(width int) error {
	if len(s) != width {
		return fmt.Errorf("%w: want %d bits, got %d", ErrMalformedLength, width, len(s))
	}
	return nil
}

// Split cuts the sequence at bit n, returning copies of both parts.
func (s Seq) Split(n int) (Seq, Seq) {
	left := make(Seq, n)
	right := make(Seq, len(s)-n)
	copy(left, s[:n])
	copy(right, s[n:])
	return left, right
}

// RotateLeft returns a copy of s cyclically rotated left by n positions.
func (s Seq) RotateLeft(n int) Seq {
	out := make(Seq, len(s))
	if len(s) == 0 {
		return out
	}
	n %= len(s)
	if n < 0 {
		n += len(s)
	}
	copy(out, s[n:])
	copy(out[len(s)-n:], s[:n])
	return out
}

// Equal reports whether a and b hold the same bits.
func (s Seq) Equal(o Seq) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the bits as a run of '0' and '1' characters.
func (s Seq) String() string {
	b := make([]byte, len(s))
	for i, bit := range s {
		b[i] = '0' + bit&1
	}
	return string(b)
}

// XOR combines two sequences of equal width.
func XOR(a, b Seq) (Seq, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: xor of %d and %d bits", ErrMalformedLength, len(a), len(b))
	}
	out := make(Seq, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out, nil
}

// Concat joins the parts in order into a new sequence.
func Concat(parts ...Seq) Seq {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(Seq, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
