package block

import (
	"fmt"

	"github.com/TheusHen/D64/d64/bits"
)

// Size is the block size in bytes.
const Size = 8

const blockBits = Size * 8

// Transform runs one 8-byte block through the Feistel network and writes the
// result to dst. Pass the forward schedule to encrypt and its Reverse to decrypt.
// dst and src may overlap entirely. It panics if src is not exactly one block,
// if dst is shorter than one block, or if keys is nil.
func Transform(dst, src []byte, keys *RoundKeys) {
	if len(src) != Size {
		panic(fmt.Sprintf("d64/block: input must be %d bytes, got %d", Size, len(src)))
	}
	if len(dst) < Size {
		panic(fmt.Sprintf("d64/block: output must hold %d bytes, got %d", Size, len(dst)))
	}
	if keys == nil {
		panic("d64/block: nil round keys")
	}

	permuted := must(initialPermutation.Apply(bits.FromBytes(src)))
	left, right := permuted.Split(halfBits)

	for _, rk := range keys {
		newRight := must(bits.XOR(left, Round(right, rk)))
		left, right = right, newRight
	}

	// The last swap is kept: the output is right || left.
	out := must(finalPermutation.Apply(bits.Concat(right, left)))
	mustWidth(out, blockBits)
	b, err := out.Bytes()
	if err != nil {
		panic(err)
	}
	copy(dst, b)
}
