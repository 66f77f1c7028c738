// Package pivot implements the PivotStep family: indexes over a collection
// that is already sorted, which pick the partition a key may live in with one
// vector comparison against k sampled pivots and binary-search only that
// partition.
//
// For n elements and fan-out k the stride is step = n/(k+1) and pivot j is
// the element at (j+1)*step. Partition i spans [start(i), start(i+1)) with
//
//	start(0) = 0, start(i) = i*step + 1 (1 <= i <= k), start(k+1) = n
//
// clamped to n. Partition i therefore ends with pivot i, holds every key in
// (pivot(i-1), pivot(i)], and the k+1 partitions tile [0, n) exactly.
//
// None of these indexes sort. Feeding an unsorted collection gives wrong
// answers, not a crash.
package pivot

import (
	"cmp"
	"fmt"

	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/order"
	"github.com/tamirms/vecidx/internal/simd"
)

// partitionStart returns start(i) for n elements, stride step and fan-out k.
func partitionStart(i, step, k, n int) int {
	switch {
	case i <= 0:
		return 0
	case i > k:
		return n
	default:
		return min(i*step+1, n)
	}
}

// registerWidth resolves the configured register width.
func registerWidth(cfg *config.Config) (simd.Width, error) {
	if cfg.RegisterBits == 0 {
		return simd.PreferredWidth(), nil
	}
	return simd.ParseWidth(cfg.RegisterBits)
}

// prepare runs the shared build-time checks and returns the register width.
func prepare[T simd.Lane](coll []T, cfg *config.Config) (simd.Width, error) {
	w, err := registerWidth(cfg)
	if err != nil {
		return 0, fmt.Errorf("pivot register: %w", err)
	}
	if cfg.Validate {
		if err := checkSorted(coll); err != nil {
			return 0, err
		}
	}
	return w, nil
}

func checkSorted[T simd.Lane](coll []T) error {
	return order.CheckSorted(coll, cmp.Compare[T])
}

// sample fills v with the pivots of coll: pivot j is coll[(j+1)*step].
// coll must be non-empty.
func sample[T simd.Lane](v *simd.Vector, coll []T) (step int) {
	k := v.Lanes()
	step = len(coll) / (k + 1)
	for j := 0; j < k; j++ {
		simd.Set(v, j, coll[(j+1)*step])
	}
	return step
}
