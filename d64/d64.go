package d64

// Encrypt pads plaintext and encrypts it under key, deriving the round keys for
// this call only. key is normalized to 8 bytes.
func Encrypt(plaintext, key []byte) []byte {
	return NewCipher(key, CipherOptions{}).EncryptMessage(plaintext)
}

// Decrypt reverses Encrypt. It returns ErrInvalidBlockLength when ciphertext is
// not a multiple of BlockSize and ErrInvalidPadding when the recovered padding
// is impossible.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	return NewCipher(key, CipherOptions{}).DecryptMessage(ciphertext)
}
