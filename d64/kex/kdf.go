package kex

import (
	"crypto/sha256"
	"errors"
	"io"

	"github.com/TheusHen/D64/d64/block"
	"golang.org/x/crypto/hkdf"
)

const (
	sessionInfo    = "d64-session-key"
	passphraseInfo = "d64-passphrase-key"
)

var (
	ErrEmptySecret = errors.New("kex: empty secret")
)

// DeriveKey derives length bytes from secret using HKDF-SHA256.
// salt may be nil; info binds the output to its purpose.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	hk := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(hk, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveSessionKey turns an X25519 shared secret into the D64 key both sides use.
// The salt is the concatenated handshake nonces; the info binds both public keys
// in initiator, responder order.
func DeriveSessionKey(sharedSecret []byte, initiatorPub, responderPub [32]byte, salt []byte) (block.Key, error) {
	if len(sharedSecret) == 0 {
		return block.Key{}, ErrEmptySecret
	}
	info := make([]byte, 0, len(sessionInfo)+64)
	info = append(info, sessionInfo...)
	info = append(info, initiatorPub[:]...)
	info = append(info, responderPub[:]...)

	raw, err := DeriveKey(sharedSecret, salt, info, block.KeySize)
	if err != nil {
		return block.Key{}, err
	}
	return block.NormalizeKey(raw), nil
}

// KeyFromPassphrase stretches an arbitrary-length passphrase into a D64 key.
// Unlike key normalization it uses every byte of the passphrase.
func KeyFromPassphrase(passphrase, salt []byte) (block.Key, error) {
	if len(passphrase) == 0 {
		return block.Key{}, ErrEmptySecret
	}
	raw, err := DeriveKey(passphrase, salt, []byte(passphraseInfo), block.KeySize)
	if err != nil {
		return block.Key{}, err
	}
	return block.NormalizeKey(raw), nil
}
