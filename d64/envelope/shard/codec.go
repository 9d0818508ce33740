// Package shard spreads sealed D64 envelopes over Reed-Solomon shards so a
// ciphertext survives the loss of up to the configured number of parity shards.
package shard

import (
	"errors"

	"github.com/TheusHen/D64/d64"
	"github.com/klauspost/reedsolomon"
)

var (
	ErrTooManyLost   = errors.New("shard: too many shards lost, cannot recover")
	ErrInvalidConfig = errors.New("shard: invalid data/parity configuration")
	ErrShardCount    = errors.New("shard: wrong number of shards")
)

// Codec provides Reed-Solomon encoding/decoding.
type Codec struct {
	enc          reedsolomon.Encoder
	dataShards   int
	parityShards int
}

// NewCodec creates a new codec.
// dataShards: number of data shards
// parityShards: number of parity shards (can lose up to this many)
func NewCodec(dataShards, parityShards int) (*Codec, error) {
	if dataShards <= 0 || parityShards <= 0 {
		return nil, ErrInvalidConfig
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return nil, err
	}
	return &Codec{
		enc:          enc,
		dataShards:   dataShards,
		parityShards: parityShards,
	}, nil
}

// DataShards returns the number of data shards.
func (c *Codec) DataShards() int { return c.dataShards }

// ParityShards returns the number of parity shards.
func (c *Codec) ParityShards() int { return c.parityShards }

// TotalShards returns the total number of shards (data + parity).
func (c *Codec) TotalShards() int { return c.dataShards + c.parityShards }

// Split divides sealed into data shards and computes parity.
// Shard sizes are rounded up to a whole number of D64 blocks.
func (c *Codec) Split(sealed []byte) ([][]byte, error) {
	if len(sealed) == 0 {
		return nil, reedsolomon.ErrShortData
	}
	size := c.ShardSize(len(sealed))
	shards := make([][]byte, c.TotalShards())
	for i := range shards {
		shards[i] = make([]byte, size)
	}
	for i := 0; i < c.dataShards; i++ {
		lo := i * size
		if lo >= len(sealed) {
			break
		}
		copy(shards[i], sealed[lo:])
	}
	if err := c.enc.Encode(shards); err != nil {
		return nil, err
	}
	return shards, nil
}

// Verify checks if the parity shards are consistent with data shards.
func (c *Codec) Verify(shards [][]byte) (bool, error) {
	if len(shards) != c.TotalShards() {
		return false, ErrShardCount
	}
	return c.enc.Verify(shards)
}

// Reconstruct rebuilds missing shards in place. Missing shards are nil.
func (c *Codec) Reconstruct(shards [][]byte) error {
	if len(shards) != c.TotalShards() {
		return ErrShardCount
	}
	err := c.enc.Reconstruct(shards)
	if err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return ErrTooManyLost
		}
		return err
	}
	return nil
}

// Join concatenates the data shards and trims them to size bytes.
func (c *Codec) Join(shards [][]byte, size int) ([]byte, error) {
	if len(shards) != c.TotalShards() {
		return nil, ErrShardCount
	}
	data := make([]byte, 0, size)
	for i := 0; i < c.dataShards && len(data) < size; i++ {
		if shards[i] == nil {
			return nil, ErrTooManyLost
		}
		remaining := size - len(data)
		if remaining >= len(shards[i]) {
			data = append(data, shards[i]...)
		} else {
			data = append(data, shards[i][:remaining]...)
		}
	}
	if len(data) != size {
		return nil, reedsolomon.ErrShortData
	}
	return data, nil
}

// ShardSize returns the per-shard size for size bytes of input.
func (c *Codec) ShardSize(size int) int {
	per := (size + c.dataShards - 1) / c.dataShards
	return (per + d64.BlockSize - 1) / d64.BlockSize * d64.BlockSize
}

// Overhead returns the storage overhead ratio (e.g., 1.4 for 10+4 config).
func (c *Codec) Overhead() float64 {
	return float64(c.TotalShards()) / float64(c.dataShards)
}
