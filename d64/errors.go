package d64

import (
	"errors"

	"github.com/TheusHen/D64/d64/padding"
)

var (
	// ErrInvalidBlockLength is returned when a ciphertext is not a whole number of blocks.
	ErrInvalidBlockLength = errors.New("d64: ciphertext length is not a multiple of the block size")

	// ErrInvalidPadding is returned when the decrypted pad byte is impossible,
	// usually because of a wrong key or corrupted ciphertext.
	ErrInvalidPadding = padding.ErrInvalidPadding
)
