// Package d64 provides a pedagogical 64-bit Feistel block cipher with the
// structure of DES: initial and final permutations, 16 rounds built from an
// expansion, eight S-boxes and a round permutation, and a simplified
// rotation-based key schedule.
//
// Messages of any length are padded to whole 8-byte blocks and each block is
// transformed independently. There is no chaining, no IV and no integrity tag.
//
// # Basic Usage
//
//	ciphertext := d64.Encrypt([]byte("HELLO"), []byte("A1B2C3D4"))
//	plaintext, err := d64.Decrypt(ciphertext, []byte("A1B2C3D4"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Keys of any length are accepted: shorter keys are zero-extended and longer
// keys truncated to 8 bytes.
//
// # Reusing a Key
//
// Encrypt and Decrypt derive the round keys on every call. A Cipher derives them
// once and can spread large messages over several goroutines:
//
//	c := d64.NewCipher(key, d64.CipherOptions{Workers: 4})
//	ciphertext := c.EncryptMessage(data)
//
// Cipher also implements crypto/cipher.Block for single-block use.
//
// # Errors
//
// Decrypt reports ErrInvalidBlockLength for ciphertexts that are not a multiple
// of 8 bytes and ErrInvalidPadding when the recovered pad byte is impossible.
// A wrong key usually ends in ErrInvalidPadding, but it can also yield garbage
// plaintext with a nil error.
//
// # Security
//
// None. The schedule and S-box usage are simplified for teaching and the
// construction is not DES-compatible. Do not protect real data with it.
package d64
