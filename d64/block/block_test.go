package block

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/TheusHen/D64/d64/bits"
)

func TestTablesWellFormed(t *testing.T) {
	cases := []struct {
		name      string
		table     bits.Table
		input     int
		output    int
		bijective bool
	}{
		{"initial", initialPermutation, 64, 64, true},
		{"final", finalPermutation, 64, 64, true},
		{"round", roundPermutation, 32, 32, true},
		{"expansion", expansion, 32, 48, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if len(tc.table) != tc.output {
				t.Fatalf("table width %d, want %d", len(tc.table), tc.output)
			}
			if err := tc.table.Validate(tc.input, tc.bijective); err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestFinalInvertsInitial(t *testing.T) {
	in := make([]byte, Size)
	if _, err := rand.Read(in); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	s := bits.FromBytes(in)
	p, err := initialPermutation.Apply(s)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	back, err := finalPermutation.Apply(p)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !back.Equal(s) {
		t.Fatalf("final permutation does not undo the initial one")
	}
}

func TestSBoxValues(t *testing.T) {
	for i := range sBoxes {
		for row := range sBoxes[i] {
			seen := map[uint8]bool{}
			for _, v := range sBoxes[i][row] {
				if v > 15 {
					t.Fatalf("S%d row %d holds %d", i+1, row, v)
				}
				seen[v] = true
			}
			if len(seen) != 16 {
				t.Fatalf("S%d row %d is not a permutation of 0..15", i+1, row)
			}
		}
	}
}

func TestSubstitute(t *testing.T) {
	in := make(bits.Seq, expandedBits)
	// Group 0 = 011011: row 01, column 1101 -> S1[1][13] = 5.
	copy(in, bits.Seq{0, 1, 1, 0, 1, 1})
	out := Substitute(in)
	// Remaining zero groups read S2..S8 at [0][0].
	want := "0101" + "1111" + "1010" + "0111" + "0010" + "1100" + "0100" + "1101"
	if out.String() != want {
		t.Fatalf("Substitute = %s, want %s", out, want)
	}
}

func TestRoundZero(t *testing.T) {
	out := Round(make(bits.Seq, halfBits), make(bits.Seq, roundKeyBits))
	b, err := out.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(b, []byte{0xd8, 0xd8, 0xdb, 0xbc}) {
		t.Fatalf("Round(0, 0) = %x", b)
	}
}

func TestRoundPanicsOnWidth(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, bits.ErrMalformedLength) {
			t.Fatalf("expected ErrMalformedLength panic, got %v", r)
		}
	}()
	Round(make(bits.Seq, 31), make(bits.Seq, roundKeyBits))
}

func TestNormalizeKey(t *testing.T) {
	if k := NormalizeKey([]byte("abc")); !bytes.Equal(k[:], []byte{'a', 'b', 'c', 0, 0, 0, 0, 0}) {
		t.Fatalf("short key not zero-extended: %x", k)
	}
	if k := NormalizeKey([]byte("0123456789")); string(k[:]) != "01234567" {
		t.Fatalf("long key not truncated: %q", k[:])
	}
}

func TestDeriveRoundKeys(t *testing.T) {
	k := Key{0x80}
	rk := DeriveRoundKeys(k)
	for i, key := range rk {
		if key.Len() != roundKeyBits {
			t.Fatalf("round key %d has %d bits", i, key.Len())
		}
	}
	// The single set bit starts at position 0 and moves to 56-i after rotating
	// left by i, so it is visible only in round 0 and rounds 9..15.
	for i, key := range rk {
		ones := 0
		pos := -1
		for j, bit := range key {
			if bit == 1 {
				ones++
				pos = j
			}
		}
		switch {
		case i == 0:
			if ones != 1 || pos != 0 {
				t.Fatalf("round 0: %s", key)
			}
		case i <= 8:
			if ones != 0 {
				t.Fatalf("round %d should be zero: %s", i, key)
			}
		default:
			if ones != 1 || pos != 56-i {
				t.Fatalf("round %d: bit at %d, want %d", i, pos, 56-i)
			}
		}
	}
}

func TestDeriveRoundKeysIgnoresLastByte(t *testing.T) {
	a := DeriveRoundKeys(Key{1, 2, 3, 4, 5, 6, 7, 0x00})
	b := DeriveRoundKeys(Key{1, 2, 3, 4, 5, 6, 7, 0xff})
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("round %d differs; only the first 56 key bits should matter", i)
		}
	}
}

func TestReverse(t *testing.T) {
	rk := DeriveRoundKeys(NormalizeKey([]byte("A1B2C3D4")))
	rev := rk.Reverse()
	for i := range rk {
		if !rev[i].Equal(rk[Rounds-1-i]) {
			t.Fatalf("reverse mismatch at %d", i)
		}
	}
	back := rev.Reverse()
	for i := range rk {
		if !back[i].Equal(rk[i]) {
			t.Fatalf("double reverse mismatch at %d", i)
		}
	}
}

func TestTransformInverse(t *testing.T) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	enc := DeriveRoundKeys(NormalizeKey(key))
	dec := enc.Reverse()

	for i := 0; i < 64; i++ {
		src := make([]byte, Size)
		if _, err := rand.Read(src); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		ct := make([]byte, Size)
		Transform(ct, src, enc)
		pt := make([]byte, Size)
		Transform(pt, ct, dec)
		if !bytes.Equal(pt, src) {
			t.Fatalf("decrypt(encrypt(%x)) = %x", src, pt)
		}
	}
}

func TestTransformInPlace(t *testing.T) {
	enc := DeriveRoundKeys(NormalizeKey([]byte("A1B2C3D4")))
	src := []byte("HELLO\x03\x03\x03")
	want := make([]byte, Size)
	Transform(want, src, enc)

	buf := append([]byte(nil), src...)
	Transform(buf, buf, enc)
	if !bytes.Equal(buf, want) {
		t.Fatalf("in-place transform differs: %x != %x", buf, want)
	}
	Transform(buf, buf, enc.Reverse())
	if !bytes.Equal(buf, src) {
		t.Fatalf("in-place decrypt failed: %q", buf)
	}
}

func TestTransformSingleBitFlips(t *testing.T) {
	enc := DeriveRoundKeys(NormalizeKey([]byte("A1B2C3D4")))
	base := []byte("D64block")
	baseOut := make([]byte, Size)
	Transform(baseOut, base, enc)

	seen := map[string]int{string(baseOut): -1}
	for bit := 0; bit < Size*8; bit++ {
		in := append([]byte(nil), base...)
		in[bit/8] ^= 0x80 >> uint(bit%8)
		out := make([]byte, Size)
		Transform(out, in, enc)
		if prev, dup := seen[string(out)]; dup {
			t.Fatalf("flip of bit %d collides with %d", bit, prev)
		}
		seen[string(out)] = bit
	}
}

func TestTransformPanicsOnShortBlock(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a 5-byte block")
		}
	}()
	enc := DeriveRoundKeys(Key{})
	Transform(make([]byte, Size), make([]byte, 5), enc)
}

func BenchmarkTransform(b *testing.B) {
	enc := DeriveRoundKeys(NormalizeKey([]byte("A1B2C3D4")))
	buf := make([]byte, Size)
	b.SetBytes(Size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Transform(buf, buf, enc)
	}
}
