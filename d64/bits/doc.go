// Package bits provides the fixed-width bit sequences the D64 block core is built on.
//
// A Seq holds one bit per element, most significant bit of each source byte first.
// Widths are checked at every transform boundary; a mismatch reports
// ErrMalformedLength, which the block core treats as a programming error.
//
// Tables are 1-based index lists applied by Table.Apply. The same operation
// realizes narrowing, widening (with repeated positions) and pure bit permutations.
package bits
