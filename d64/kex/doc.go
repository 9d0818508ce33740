// Package kex agrees on D64 keys between two parties.
//
// Design goals:
//   - Fresh key per session via ephemeral X25519 (RFC 7748)
//   - Key derivation via HKDF-SHA256, bound to both public keys and nonces
//   - Output sized for the 8-byte D64 key
package kex
