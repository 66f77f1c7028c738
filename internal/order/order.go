// Package order provides the sorted-position machinery shared by the
// sort-based index variants: the offset width constraint, permutation
// construction, lower bound over a permutation, and the build-time
// debug assertions.
package order

import (
	"fmt"
	"slices"
	"unsafe"

	vecerrors "github.com/tamirms/vecidx/errors"
)

// Offset is a stored position into the borrowed collection. Its width trades
// auxiliary memory for the largest collection it can address.
type Offset interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// MaxOffset returns the largest position P can hold.
func MaxOffset[P Offset]() uint64 {
	return uint64(^P(0))
}

// OffsetBytes returns sizeof(P).
func OffsetBytes[P Offset]() int {
	var p P
	return int(unsafe.Sizeof(p))
}

// SortedPositions returns the positions 0..n-1 ordered by cmp applied to the
// elements they reference. The sort is unstable (pdqsort).
func SortedPositions[T any, P Offset](coll []T, cmp func(a, b T) int) []P {
	positions := make([]P, len(coll))
	for i := range positions {
		positions[i] = P(i)
	}
	slices.SortFunc(positions, func(a, b P) int {
		return cmp(coll[a], coll[b])
	})
	return positions
}

// LowerBound returns the first slot in positions whose element is not less
// than key, and whether that element compares equal to key.
// positions must be ordered by cmp.
func LowerBound[T any, P Offset](coll []T, positions []P, key T, cmp func(a, b T) int) (int, bool) {
	return slices.BinarySearchFunc(positions, key, func(p P, k T) int {
		return cmp(coll[p], k)
	})
}

// CheckOffset reports ErrOffsetOverflow when P cannot address n elements.
func CheckOffset[P Offset](n int) error {
	if n == 0 {
		return nil
	}
	if uint64(n-1) > MaxOffset[P]() {
		return fmt.Errorf("%d elements need offsets up to %d, %d-byte offsets hold %d: %w",
			n, n-1, OffsetBytes[P](), MaxOffset[P](), vecerrors.ErrOffsetOverflow)
	}
	return nil
}

// CheckSorted reports ErrUnsortedInput with the first out-of-order position.
func CheckSorted[T any](coll []T, cmp func(a, b T) int) error {
	for i := 1; i < len(coll); i++ {
		if cmp(coll[i-1], coll[i]) > 0 {
			return fmt.Errorf("element %d is less than element %d: %w", i, i-1, vecerrors.ErrUnsortedInput)
		}
	}
	return nil
}
