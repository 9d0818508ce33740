package kex

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/TheusHen/D64/d64/block"
	"golang.org/x/crypto/curve25519"
)

var (
	ErrInvalidPublicKey = errors.New("kex: invalid X25519 public key")
)

// Ephemeral is a single-use X25519 key for one session handshake.
// The scalar never leaves the value; only Public goes on the wire.
type Ephemeral struct {
	Public [curve25519.PointSize]byte
	scalar [curve25519.ScalarSize]byte
}

// NewEphemeral draws a fresh scalar and computes its public point.
func NewEphemeral() (*Ephemeral, error) {
	e := new(Ephemeral)
	if _, err := rand.Read(e.scalar[:]); err != nil {
		return nil, err
	}
	pub, err := curve25519.X25519(e.scalar[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	copy(e.Public[:], pub)
	return e, nil
}

// Shared returns the raw X25519 secret with peer. Zero and low-order points
// are rejected with ErrInvalidPublicKey.
func (e *Ephemeral) Shared(peer [curve25519.PointSize]byte) ([]byte, error) {
	if peer == ([curve25519.PointSize]byte{}) {
		return nil, ErrInvalidPublicKey
	}
	shared, err := curve25519.X25519(e.scalar[:], peer[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return shared, nil
}

// SessionKey agrees on the D64 key with peer. Both sides must pass the same
// salt; initiator tells which public key goes first into the derivation.
func (e *Ephemeral) SessionKey(peer [curve25519.PointSize]byte, initiator bool, salt []byte) (block.Key, error) {
	shared, err := e.Shared(peer)
	if err != nil {
		return block.Key{}, err
	}
	if initiator {
		return DeriveSessionKey(shared, e.Public, peer, salt)
	}
	return DeriveSessionKey(shared, peer, e.Public, salt)
}
