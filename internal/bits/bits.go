// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// FastRange64 maps a 64-bit hash uniformly to [0, n).
// Uses the "fastrange" technique: multiply and take high bits.
// This is the standard way to map hashes to ranges without modulo bias.
func FastRange64(hash uint64, n uint64) uint64 {
	if n == 0 {
		return 0
	}
	hi, _ := bits.Mul64(hash, n)
	return hi
}

// FloorLog2 returns floor(log2(n)) for n >= 1 and 0 for n <= 0.
func FloorLog2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len64(uint64(n)) - 1
}

// HighRank returns the index of the highest set bit plus one, which is the
// number of leading lanes set in a prefix-shaped comparison mask.
// A zero mask yields 0.
func HighRank(mask uint64) int {
	return bits.Len64(mask)
}
