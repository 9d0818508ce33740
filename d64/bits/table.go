package bits

import (
	"errors"
	"fmt"
)

var (
	ErrTableEmpty     = errors.New("bits: empty permutation table")
	ErrTableRange     = errors.New("bits: table index out of range")
	ErrTableDuplicate = errors.New("bits: table repeats a source index")
	ErrTableCoverage  = errors.New("bits: table does not cover every source index")
)

// Table is an ordered list of 1-based source indices. Its length is the output width.
type Table []int

// Max returns the largest source index referenced by the table.
func (t Table) Max() int {
	m := 0
	for _, v := range t {
		if v > m {
			m = v
		}
	}
	return m
}

// Apply re-indexes in so that out[i] = in[t[i]-1].
func (t Table) Apply(in Seq) (Seq, error) {
	if len(in) < t.Max() {
		return nil, fmt.Errorf("%w: table needs %d input bits, got %d", ErrMalformedLength, t.Max(), len(in))
	}
	out := make(Seq, len(t))
	for i, src := range t {
		if src < 1 {
			return nil, fmt.Errorf("%w: position %d holds %d", ErrTableRange, i, src)
		}
		out[i] = in[src-1]
	}
	return out, nil
}

// Validate checks that every entry lies in [1, inputWidth] and that every source
// index is used. With bijective set, repeats are rejected as well.
func (t Table) Validate(inputWidth int, bijective bool) error {
	if len(t) == 0 {
		return ErrTableEmpty
	}
	seen := make([]bool, inputWidth+1)
	for i, src := range t {
		if src < 1 || src > inputWidth {
			return fmt.Errorf("%w: position %d holds %d, want [1,%d]", ErrTableRange, i, src, inputWidth)
		}
		if seen[src] && bijective {
			return fmt.Errorf("%w: %d at position %d", ErrTableDuplicate, src, i)
		}
		seen[src] = true
	}
	for src := 1; src <= inputWidth; src++ {
		if !seen[src] {
			return fmt.Errorf("%w: %d missing", ErrTableCoverage, src)
		}
	}
	return nil
}
