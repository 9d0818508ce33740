package d64

import (
	"crypto/cipher"
	"fmt"

	"github.com/TheusHen/D64/d64/block"
	"github.com/TheusHen/D64/d64/padding"
	"golang.org/x/sync/errgroup"
)

// BlockSize is the D64 block size in bytes.
const BlockSize = block.Size

// blocksPerTask is the unit of work handed to one goroutine when Workers > 1.
const blocksPerTask = 256

var _ cipher.Block = (*Cipher)(nil)

// CipherOptions configures a Cipher. The zero value processes blocks serially
// and derives the schedule without caching.
type CipherOptions struct {
	// Workers bounds the goroutines used for one message. Values <= 1 run serially.
	Workers int
	// Cache, when set, supplies memoized schedules keyed by the normalized key.
	Cache *KeyCache
}

// Cipher holds the round-key schedules for one key. It is safe for concurrent use.
type Cipher struct {
	key     block.Key
	enc     *block.RoundKeys
	dec     *block.RoundKeys
	workers int
}

// NewCipher normalizes key to 8 bytes and derives its schedules.
func NewCipher(key []byte, opts CipherOptions) *Cipher {
	k := block.NormalizeKey(key)
	c := &Cipher{key: k, workers: opts.Workers}
	if opts.Cache != nil {
		c.enc, c.dec = opts.Cache.Get(k)
	} else {
		c.enc = block.DeriveRoundKeys(k)
		c.dec = c.enc.Reverse()
	}
	return c
}

// Key returns the normalized key.
func (c *Cipher) Key() block.Key { return c.key }

// BlockSize returns the cipher's block size.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the first block in src into dst.
func (c *Cipher) Encrypt(dst, src []byte) {
	checkBlock(dst, src)
	block.Transform(dst, src[:BlockSize], c.enc)
}

// Decrypt decrypts the first block in src into dst.
func (c *Cipher) Decrypt(dst, src []byte) {
	checkBlock(dst, src)
	block.Transform(dst, src[:BlockSize], c.dec)
}

func checkBlock(dst, src []byte) {
	if len(src) < BlockSize {
		panic("d64: input not full block")
	}
	if len(dst) < BlockSize {
		panic("d64: output not full block")
	}
}

// EncryptMessage pads plaintext and encrypts every block independently.
// The result is always a non-empty multiple of BlockSize.
func (c *Cipher) EncryptMessage(plaintext []byte) []byte {
	padded := padding.Pad(plaintext)
	c.transformBlocks(padded, padded, c.enc)
	return padded
}

// DecryptMessage decrypts every block of ciphertext and removes the padding.
func (c *Cipher) DecryptMessage(ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidBlockLength, len(ciphertext))
	}
	out := make([]byte, len(ciphertext))
	c.transformBlocks(out, ciphertext, c.dec)
	return padding.Unpad(out)
}

// transformBlocks runs every block of src through the network into dst.
// len(src) must be a multiple of BlockSize and dst at least as long.
func (c *Cipher) transformBlocks(dst, src []byte, keys *block.RoundKeys) {
	n := len(src) / BlockSize
	if c.workers <= 1 || n <= blocksPerTask {
		transformRange(dst, src, keys)
		return
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for start := 0; start < n; start += blocksPerTask {
		lo := start * BlockSize
		hi := min(start+blocksPerTask, n) * BlockSize
		g.Go(func() error {
			transformRange(dst[lo:hi], src[lo:hi], keys)
			return nil
		})
	}
	_ = g.Wait()
}

func transformRange(dst, src []byte, keys *block.RoundKeys) {
	for off := 0; off < len(src); off += BlockSize {
		block.Transform(dst[off:off+BlockSize], src[off:off+BlockSize], keys)
	}
}
