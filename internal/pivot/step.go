package pivot

import (
	"slices"
	"time"

	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/simd"
)

// Index is the one-level PivotStep index over a borrowed, sorted collection.
//
// Thread Safety:
// - Build must complete before any Find
// - Find, At and Partition are safe for concurrent use after Build
type Index[T simd.Lane] struct {
	coll   []T
	cfg    config.Config
	pivots simd.Vector
	step   int
	n      int
}

// New borrows coll, which must be sorted ascending. Call Build before
// querying.
func New[T simd.Lane](coll []T, cfg config.Config) *Index[T] {
	return &Index[T]{coll: coll, cfg: cfg}
}

// Build samples the pivot register in O(k).
func (x *Index[T]) Build() error {
	w, err := prepare(x.coll, &x.cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	x.pivots = simd.NewVector[T](w)
	x.n = len(x.coll)
	x.step = 0
	if x.n > 0 {
		x.step = sample(&x.pivots, x.coll)
	}
	x.cfg.Log().Debug("index built",
		"variant", "pivot-step",
		"n", x.n,
		"register_bits", int(w),
		"fanout", x.pivots.Lanes(),
		"step", x.step,
		"accelerated", simd.AcceleratedFor(simd.LaneBytes[T](), w),
		"elapsed", time.Since(start))
	return nil
}

// Find selects the partition with one register compare and binary-searches it.
func (x *Index[T]) Find(key T) (int, bool) {
	if x.n == 0 {
		return 0, false
	}
	lo, hi := x.Partition(simd.Rank(&x.pivots, key))
	j, ok := slices.BinarySearch(x.coll[lo:hi], key)
	if !ok {
		return 0, false
	}
	return lo + j, true
}

// Select returns the partition index i in [0, k] for key.
func (x *Index[T]) Select(key T) int {
	return simd.Rank(&x.pivots, key)
}

// Partition returns the half-open bounds of partition i.
func (x *Index[T]) Partition(i int) (lo, hi int) {
	k := x.pivots.Lanes()
	return partitionStart(i, x.step, k, x.n), partitionStart(i+1, x.step, k, x.n)
}

// Pivots returns a copy of the sampled pivots.
func (x *Index[T]) Pivots() []T {
	out := make([]T, x.pivots.Lanes())
	for j := range out {
		out[j] = simd.Get[T](&x.pivots, j)
	}
	return out
}

// Fanout returns k, the number of pivots.
func (x *Index[T]) Fanout() int {
	return x.pivots.Lanes()
}

// Step returns the pivot stride.
func (x *Index[T]) Step() int {
	return x.step
}

// At returns the i-th element; the collection is already in sorted order.
func (x *Index[T]) At(i int) T {
	return x.coll[i]
}

// Len returns the number of indexed elements.
func (x *Index[T]) Len() int {
	return x.n
}
