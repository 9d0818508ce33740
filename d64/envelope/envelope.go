// Package envelope wraps D64 ciphertext in a small self-describing container.
//
// Layout:
//
//	4 bytes: magic "D64E"
//	1 byte:  version (1)
//	1 byte:  flags (bit 0: payload LZ4-compressed before encryption)
//	4 bytes: plaintext length (big endian)
//	N bytes: D64 ciphertext
//
// The header is not authenticated. A wrong key is detected only as far as the
// D64 padding check, the length check and LZ4 framing happen to catch it.
package envelope

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/TheusHen/D64/d64"
)

const (
	Magic      = "D64E"
	Version    = 1
	HeaderSize = 10

	flagCompressed = 1 << 0
)

var (
	ErrTruncated          = errors.New("envelope: truncated")
	ErrBadMagic           = errors.New("envelope: bad magic")
	ErrUnsupportedVersion = errors.New("envelope: unsupported version")
	ErrLengthMismatch     = errors.New("envelope: plaintext length mismatch")
	ErrTooLarge           = errors.New("envelope: plaintext too large")
)

type Options struct {
	Compression CompressionLevel
}

// Header is the decoded envelope header.
type Header struct {
	Version    uint8
	Compressed bool
	PlainLen   uint32
}

// Seal encrypts plaintext with c and prepends the envelope header. The payload
// is compressed first when that makes it smaller.
func Seal(plaintext []byte, c *d64.Cipher, opts Options) ([]byte, error) {
	if uint64(len(plaintext)) > math.MaxUint32 {
		return nil, ErrTooLarge
	}
	payload := plaintext
	var flags byte
	if opts.Compression != CompressionNone && len(plaintext) > 0 {
		compressed, err := compress(plaintext, opts.Compression)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(plaintext) {
			payload = compressed
			flags |= flagCompressed
		}
	}

	ct := c.EncryptMessage(payload)
	out := make([]byte, HeaderSize+len(ct))
	copy(out, Magic)
	out[4] = Version
	out[5] = flags
	binary.BigEndian.PutUint32(out[6:10], uint32(len(plaintext)))
	copy(out[HeaderSize:], ct)
	return out, nil
}

// ParseHeader decodes and validates the header of a sealed envelope.
func ParseHeader(sealed []byte) (Header, error) {
	if len(sealed) < HeaderSize {
		return Header{}, ErrTruncated
	}
	if string(sealed[:4]) != Magic {
		return Header{}, ErrBadMagic
	}
	if sealed[4] != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, sealed[4])
	}
	return Header{
		Version:    sealed[4],
		Compressed: sealed[5]&flagCompressed != 0,
		PlainLen:   binary.BigEndian.Uint32(sealed[6:10]),
	}, nil
}

// Open reverses Seal.
func Open(sealed []byte, c *d64.Cipher) ([]byte, error) {
	h, err := ParseHeader(sealed)
	if err != nil {
		return nil, err
	}
	payload, err := c.DecryptMessage(sealed[HeaderSize:])
	if err != nil {
		return nil, err
	}
	if h.Compressed {
		payload, err = decompress(payload, int(h.PlainLen))
		if err != nil {
			return nil, err
		}
	}
	if len(payload) != int(h.PlainLen) {
		return nil, fmt.Errorf("%w: header says %d, got %d", ErrLengthMismatch, h.PlainLen, len(payload))
	}
	return payload, nil
}
