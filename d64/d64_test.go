package d64

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	key := []byte("A1B2C3D4")
	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single_byte", []byte{0x42}},
		{"hello", []byte("HELLO")},
		{"one_block", []byte("12345678")},
		{"two_blocks_minus_one", []byte("123456789abcdef")},
		{"sentence", []byte("The quick brown fox jumps over the lazy dog")},
		{"zeros", make([]byte, 64)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ct := Encrypt(tc.data, key)
			if len(ct)%BlockSize != 0 || len(ct) <= len(tc.data) {
				t.Fatalf("unexpected ciphertext length %d for %d bytes", len(ct), len(tc.data))
			}
			pt, err := Decrypt(ct, key)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if !bytes.Equal(pt, tc.data) {
				t.Fatalf("Decrypt = %q, want %q", pt, tc.data)
			}
		})
	}
}

func TestRoundTripRandom(t *testing.T) {
	for i := 0; i < 32; i++ {
		key := make([]byte, 8)
		msg := make([]byte, i*7)
		if _, err := rand.Read(key); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		if _, err := rand.Read(msg); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		pt, err := Decrypt(Encrypt(msg, key), key)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("round trip failed for %d bytes", len(msg))
		}
	}
}

func TestHelloScenario(t *testing.T) {
	key := []byte("A1B2C3D4")
	ct := Encrypt([]byte("HELLO"), key)
	if len(ct) != 8 {
		t.Fatalf("ciphertext is %d bytes, want 8", len(ct))
	}

	// The single block is the padded plaintext run through the network once.
	c := NewCipher(key, CipherOptions{})
	want := make([]byte, BlockSize)
	c.Encrypt(want, []byte("HELLO\x03\x03\x03"))
	if !bytes.Equal(ct, want) {
		t.Fatalf("ciphertext %X, block encryption %X", ct, want)
	}

	pt, err := Decrypt(ct, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(pt) != "HELLO" {
		t.Fatalf("Decrypt = %q", pt)
	}
}

func TestKnownAnswers(t *testing.T) {
	cases := []struct {
		plaintext string
		key       string
		want      string
	}{
		{"HELLO", "A1B2C3D4", "76FD0FDBCCA755C2"},
		{"", "A1B2C3D4", "79892A0659964FA1"},
	}
	for _, tc := range cases {
		ct := Encrypt([]byte(tc.plaintext), []byte(tc.key))
		if got := fmt.Sprintf("%X", ct); got != tc.want {
			t.Fatalf("Encrypt(%q, %q) = %s, want %s", tc.plaintext, tc.key, got, tc.want)
		}
		want, _ := hex.DecodeString(tc.want)
		pt, err := Decrypt(want, []byte(tc.key))
		if err != nil {
			t.Fatalf("Decrypt(%s): %v", tc.want, err)
		}
		if string(pt) != tc.plaintext {
			t.Fatalf("Decrypt(%s) = %q, want %q", tc.want, pt, tc.plaintext)
		}
	}
}

func TestEmptyPlaintext(t *testing.T) {
	key := []byte("A1B2C3D4")
	ct := Encrypt(nil, key)
	if len(ct) != BlockSize {
		t.Fatalf("ciphertext is %d bytes, want a full pad block", len(ct))
	}
	block := make([]byte, BlockSize)
	NewCipher(key, CipherOptions{}).Decrypt(block, ct)
	if !bytes.Equal(block, bytes.Repeat([]byte{8}, 8)) {
		t.Fatalf("decrypted pad block = %x", block)
	}
	pt, err := Decrypt(ct, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if len(pt) != 0 {
		t.Fatalf("Decrypt = %q, want empty", pt)
	}
}

func TestDeterministic(t *testing.T) {
	key := []byte("A1B2C3D4")
	data := []byte("deterministic test data")
	c1 := Encrypt(data, key)
	c2 := Encrypt(data, key)
	c3 := NewCipher(key, CipherOptions{Workers: 4}).EncryptMessage(data)
	if !bytes.Equal(c1, c2) || !bytes.Equal(c2, c3) {
		t.Fatalf("encryption is not deterministic")
	}
}

func TestKeyNormalization(t *testing.T) {
	data := []byte("normalize me")
	if !bytes.Equal(Encrypt(data, []byte("abc")), Encrypt(data, []byte("abc\x00\x00\x00\x00\x00"))) {
		t.Fatalf("short key is not zero-extended")
	}
	if !bytes.Equal(Encrypt(data, []byte("A1B2C3D4-extra")), Encrypt(data, []byte("A1B2C3D4"))) {
		t.Fatalf("long key is not truncated")
	}
}

func TestDecryptInvalidBlockLength(t *testing.T) {
	_, err := Decrypt(make([]byte, 5), []byte("A1B2C3D4"))
	if !errors.Is(err, ErrInvalidBlockLength) {
		t.Fatalf("expected ErrInvalidBlockLength, got %v", err)
	}
}

func TestDecryptEmptyCiphertext(t *testing.T) {
	_, err := Decrypt(nil, []byte("A1B2C3D4"))
	if !errors.Is(err, ErrInvalidPadding) {
		t.Fatalf("expected ErrInvalidPadding, got %v", err)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	right := []byte("A1B2C3D4")
	wrong := []byte("Z1B2C3D4")

	const trials = 64
	failures := 0
	for i := 0; i < trials; i++ {
		msg := make([]byte, 13+i)
		if _, err := rand.Read(msg); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		ct := Encrypt(msg, right)
		pt, err := Decrypt(ct, wrong)
		switch {
		case errors.Is(err, ErrInvalidPadding):
			failures++
		case err != nil:
			t.Fatalf("unexpected error: %v", err)
		case bytes.Equal(pt, msg):
			t.Fatalf("wrong key recovered the plaintext")
		}
	}
	// A random final byte is a valid pad length with probability 8/256.
	if failures < trials/2 {
		t.Fatalf("only %d of %d wrong-key decryptions failed to unpad", failures, trials)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	key := []byte("parallel")
	data := make([]byte, 10000)
	if _, err := rand.Read(data); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	serial := NewCipher(key, CipherOptions{}).EncryptMessage(data)
	par := NewCipher(key, CipherOptions{Workers: 4})
	ct := par.EncryptMessage(data)
	if !bytes.Equal(ct, serial) {
		t.Fatalf("parallel ciphertext differs from serial")
	}
	pt, err := par.DecryptMessage(ct)
	if err != nil {
		t.Fatalf("DecryptMessage: %v", err)
	}
	if !bytes.Equal(pt, data) {
		t.Fatalf("parallel round trip failed")
	}
}

func TestEncryptMessageDoesNotModifyInput(t *testing.T) {
	data := []byte("0123456789abcdef")
	orig := append([]byte(nil), data...)
	NewCipher([]byte("k"), CipherOptions{}).EncryptMessage(data)
	if !bytes.Equal(data, orig) {
		t.Fatalf("EncryptMessage modified its input")
	}
}

func TestKeyCache(t *testing.T) {
	cache := NewKeyCache(2)
	a := NewCipher([]byte("A1B2C3D4"), CipherOptions{Cache: cache})
	b := NewCipher([]byte("A1B2C3D4"), CipherOptions{Cache: cache})
	if a.enc != b.enc || a.dec != b.dec {
		t.Fatalf("expected shared schedules from the cache")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache holds %d entries, want 1", cache.Len())
	}

	data := []byte("cached")
	if !bytes.Equal(a.EncryptMessage(data), Encrypt(data, []byte("A1B2C3D4"))) {
		t.Fatalf("cached schedule changed the ciphertext")
	}

	NewCipher([]byte("key-two"), CipherOptions{Cache: cache})
	NewCipher([]byte("key-three"), CipherOptions{Cache: cache})
	if cache.Len() != 2 {
		t.Fatalf("cache exceeded its bound: %d", cache.Len())
	}
}

func TestCipherBlockInterface(t *testing.T) {
	c := NewCipher([]byte("A1B2C3D4"), CipherOptions{})
	if c.BlockSize() != 8 {
		t.Fatalf("BlockSize = %d", c.BlockSize())
	}
	src := []byte("8 bytes!")
	ct := make([]byte, 8)
	c.Encrypt(ct, src)
	pt := make([]byte, 8)
	c.Decrypt(pt, ct)
	if !bytes.Equal(pt, src) {
		t.Fatalf("block round trip = %q", pt)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on short input")
		}
	}()
	c.Encrypt(ct, src[:4])
}

func BenchmarkEncryptMessage(b *testing.B) {
	c := NewCipher([]byte("A1B2C3D4"), CipherOptions{})
	data := make([]byte, 4096)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.EncryptMessage(data)
	}
}

func BenchmarkEncryptMessageParallel(b *testing.B) {
	c := NewCipher([]byte("A1B2C3D4"), CipherOptions{Workers: 4})
	data := make([]byte, 64*1024)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.EncryptMessage(data)
	}
}
