// Package block implements the D64 block core: a 16-round Feistel network over
// 64-bit blocks with DES-shaped permutations and S-boxes.
//
// The key schedule is deliberately simplified. Round key i is the first 48 bits
// of the 56-bit key material rotated left by i positions; there is no PC-1/PC-2
// compression. Encryption and decryption run the same Transform and differ only
// in the order of the supplied RoundKeys.
//
// The tables and S-boxes are package-level values that are never written, so
// every function here is safe for concurrent use.
package block
