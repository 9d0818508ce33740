// Package padding implements the reversible length padding used by D64.
//
// Pad always appends between 1 and block.Size bytes, each holding the pad
// length, so a block-aligned input gains a full extra block. Unpad reads the
// length back from the final byte.
package padding

import (
	"errors"
	"fmt"

	"github.com/TheusHen/D64/d64/block"
)

var (
	ErrInvalidPadding = errors.New("padding: invalid pad length")
)

// Pad returns a new buffer holding b followed by n bytes of value n, where
// n = block.Size - len(b)%block.Size.
func Pad(b []byte) []byte {
	n := block.Size - len(b)%block.Size
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// Unpad strips the padding added by Pad. Only the final byte is inspected; it
// must be in [1, block.Size] and no larger than the buffer.
func Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidPadding)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > block.Size || n > len(b) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPadding, n)
	}
	return b[:len(b)-n], nil
}
