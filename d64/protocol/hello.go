package protocol

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// NonceSize is the length of the random nonce carried in a HELLO.
	NonceSize = 16
	// MaxClockSkew bounds how far a HELLO timestamp may drift from local time.
	MaxClockSkew = 5 * time.Minute
)

var (
	ErrHelloMissingKey   = errors.New("protocol: hello missing public key")
	ErrHelloMissingNonce = errors.New("protocol: hello missing nonce")
	ErrHelloStale        = errors.New("protocol: hello timestamp out of range")
)

// Hello carries one side's ephemeral X25519 public key and a nonce. Both HELLOs
// feed the session key derivation.
type Hello struct {
	PublicKey    []byte            `json:"public_key"`
	Nonce        []byte            `json:"nonce"`
	TimestampSec int64             `json:"timestamp_sec"`
	Capabilities map[string]string `json:"capabilities,omitempty"`
}

func NewHello(publicKey [32]byte, capabilities map[string]string) (Hello, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Hello{}, err
	}
	// Copy caps to avoid external mutation.
	capsCopy := map[string]string{}
	for k, v := range capabilities {
		capsCopy[k] = v
	}
	return Hello{
		PublicKey:    append([]byte(nil), publicKey[:]...),
		Nonce:        nonce,
		TimestampSec: time.Now().Unix(),
		Capabilities: capsCopy,
	}, nil
}

// Key returns the public key as a fixed-size array.
func (h Hello) Key() ([32]byte, error) {
	var k [32]byte
	if len(h.PublicKey) != len(k) {
		return k, ErrHelloMissingKey
	}
	copy(k[:], h.PublicKey)
	return k, nil
}

// Validate checks the key and nonce sizes and that the timestamp is within
// MaxClockSkew of now.
func (h Hello) Validate(now time.Time) error {
	if _, err := h.Key(); err != nil {
		return err
	}
	if len(h.Nonce) != NonceSize {
		return ErrHelloMissingNonce
	}
	skew := now.Sub(time.Unix(h.TimestampSec, 0))
	if skew > MaxClockSkew || skew < -MaxClockSkew {
		return fmt.Errorf("%w: skew %v", ErrHelloStale, skew)
	}
	return nil
}

func EncodeHello(h Hello) ([]byte, error) {
	return json.Marshal(h)
}

func DecodeHello(b []byte) (Hello, error) {
	var h Hello
	if err := json.Unmarshal(b, &h); err != nil {
		return Hello{}, err
	}
	return h, nil
}
