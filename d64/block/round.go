package block

import "github.com/TheusHen/D64/d64/bits"

const (
	halfBits     = 32
	expandedBits = 48
)

// Round is the Feistel round function F(right, roundKey): expand the 32-bit half
// to 48 bits, mix in the round key, substitute back to 32 bits and permute.
func Round(right, roundKey bits.Seq) bits.Seq {
	mustWidth(right, halfBits)
	mustWidth(roundKey, roundKeyBits)

	expanded := must(expansion.Apply(right))
	mixed := must(bits.XOR(expanded, roundKey))
	return must(roundPermutation.Apply(Substitute(mixed)))
}

// must and mustWidth turn width violations into panics: they can only come from
// a broken caller inside this package, never from user input.
func must(s bits.Seq, err error) bits.Seq {
	if err != nil {
		panic(err)
	}
	return s
}

func mustWidth(s bits.Seq, width int) {
	if err := s.Check(width); err != nil {
		panic(err)
	}
}
