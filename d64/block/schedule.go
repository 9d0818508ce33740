package block

import "github.com/TheusHen/D64/d64/bits"

const (
	// KeySize is the normalized key length in bytes.
	KeySize = 8
	// Rounds is the number of Feistel rounds per block.
	Rounds = 16

	materialBits = 56
	roundKeyBits = 48
)

// Key is normalized key material.
type Key [KeySize]byte

// NormalizeKey zero-extends short keys and truncates long ones to KeySize bytes.
func NormalizeKey(b []byte) Key {
	var k Key
	copy(k[:], b)
	return k
}

// RoundKeys is the ordered set of 48-bit round keys consumed by Transform.
type RoundKeys [Rounds]bits.Seq

// DeriveRoundKeys builds the forward (encryption order) schedule for k.
func DeriveRoundKeys(k Key) *RoundKeys {
	material := bits.FromBytes(k[:])[:materialBits]
	var rk RoundKeys
	for i := range rk {
		rotated := material.RotateLeft(i)
		rk[i] = rotated[:roundKeyBits]
	}
	return &rk
}

// Reverse returns a new schedule with the round order inverted, which turns an
// encryption schedule into a decryption schedule and back.
func (rk *RoundKeys) Reverse() *RoundKeys {
	var out RoundKeys
	for i := range rk {
		out[Rounds-1-i] = rk[i]
	}
	return &out
}
