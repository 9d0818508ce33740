// Package session runs D64-encrypted request/reply exchanges over QUIC.
//
// Each side sends a HELLO with an ephemeral X25519 public key on a dedicated
// control stream. Both derive the same 8-byte D64 key from the shared secret and
// the HELLO nonces, then DATA and REPLY frames carry D64 ciphertext.
//
// QUIC already encrypts the connection; the D64 layer is the point of the
// exercise, not a replacement for TLS.
package session
